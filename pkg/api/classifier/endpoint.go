package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/coursepulse/backend/config"
	"github.com/coursepulse/backend/pkg/api"
	"github.com/mitchellh/mapstructure"
)

// Classification mirrors the JSON object the model is asked to produce.
// Fields the model omits decode to false.
type Classification struct {
	HasTeaching   bool `mapstructure:"has_teaching"`
	HasAssessment bool `mapstructure:"has_assessment"`
	HasMaterials  bool `mapstructure:"has_materials"`
	HasTips       bool `mapstructure:"has_tips"`
}

const systemPrompt = `You classify university course feedback comments. ` +
	`Respond with a JSON object containing exactly four boolean fields: ` +
	`"has_teaching" (the comment discusses teaching quality), ` +
	`"has_assessment" (grading, exams or assessment), ` +
	`"has_materials" (course materials or resources), ` +
	`"has_tips" (tips for future students). No other fields, no prose.`

type Caller interface {
	Classify(ctx context.Context, comment string) (Classification, error)
}

type Endpoint struct {
	url    string
	apiKey string
	model  string

	apiGenerator api.Generator
}

func New(cfg config.ClassifierConfigs) *Endpoint {
	return &Endpoint{
		url:          cfg.URL,
		apiKey:       cfg.APIKey,
		model:        cfg.Model,
		apiGenerator: api.NewGenerator(),
	}
}

func (e *Endpoint) Classify(ctx context.Context, comment string) (Classification, error) {
	resp, err := e.apiGenerator.New(e.url, "/v1/chat/completions").
		Body(api.JSON{
			"model":           e.model,
			"temperature":     0,
			"response_format": api.JSON{"type": "json_object"},
			"messages": []api.JSON{
				{"role": "system", "content": systemPrompt},
				{"role": "user", "content": comment},
			},
		}).
		POST(ctx, api.Bearer(e.apiKey))
	if err != nil {
		return Classification{}, err
	}

	if resp.Code != http.StatusOK {
		return Classification{}, fmt.Errorf("classifier provider returned status %d", resp.Code)
	}

	content, err := firstChoiceContent(resp.Body)
	if err != nil {
		return Classification{}, err
	}

	var fields map[string]any
	if err := json.Unmarshal([]byte(content), &fields); err != nil {
		return Classification{}, fmt.Errorf("cannot parse classifier content: %w", err)
	}

	var result Classification
	if err := mapstructure.Decode(fields, &result); err != nil {
		return Classification{}, fmt.Errorf("cannot decode classifier content: %w", err)
	}

	return result, nil
}

func firstChoiceContent(body api.JSON) (string, error) {
	choices, err := body.GetArray("choices")
	if err != nil {
		return "", err
	}

	if len(choices) == 0 {
		return "", fmt.Errorf("classifier provider returned no choices")
	}

	choice, ok := choices[0].(map[string]any)
	if !ok {
		return "", fmt.Errorf("invalid type of first choice (%T)", choices[0])
	}

	message, err := api.JSON(choice).GetJSON("message")
	if err != nil {
		return "", err
	}

	return message.GetString("content")
}
