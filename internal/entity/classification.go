package entity

import "time"

// Classification is the four-boolean topic result assigned to a comment.
type Classification struct {
	HasTeaching   bool
	HasAssessment bool
	HasMaterials  bool
	HasTips       bool
}

func (c Classification) CountTrue() int {
	count := 0
	for _, flag := range []bool{c.HasTeaching, c.HasAssessment, c.HasMaterials, c.HasTips} {
		if flag {
			count++
		}
	}

	return count
}

// CommentClassification caches the classifier result for one normalized
// comment text, keyed by its content hash. Two comments that normalize
// identically share a row.
type CommentClassification struct {
	CommentHash string `gorm:"primaryKey;size:64"`

	Classification `gorm:"embedded"`

	HitCount       int64
	LastAccessedAt time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
