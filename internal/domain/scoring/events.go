package scoring

import (
	"encoding/json"

	"github.com/coursepulse/backend/pkg/pubsub"
	"github.com/fatih/structs"
	"github.com/mitchellh/mapstructure"
)

// CacheUsageEvent records one classification cache hit. It is published
// fire-and-forget and folded into hit_count/last_accessed_at by the
// bookkeeping worker.
type CacheUsageEvent struct {
	CommentHash    string `structs:"comment_hash" mapstructure:"comment_hash"`
	AccessedAtUnix int64  `structs:"accessed_at_unix" mapstructure:"accessed_at_unix"`
}

func (e CacheUsageEvent) Pack() (*pubsub.Pack, error) {
	msg, err := json.Marshal(structs.Map(e))
	if err != nil {
		return nil, err
	}

	return &pubsub.Pack{Key: []byte(e.CommentHash), Msg: msg}, nil
}

func ParseCacheUsageEvent(pack *pubsub.Pack) (CacheUsageEvent, error) {
	var fields map[string]any
	if err := json.Unmarshal(pack.Msg, &fields); err != nil {
		return CacheUsageEvent{}, err
	}

	var event CacheUsageEvent
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &event,
	})
	if err != nil {
		return CacheUsageEvent{}, err
	}

	if err := decoder.Decode(fields); err != nil {
		return CacheUsageEvent{}, err
	}

	return event, nil
}
