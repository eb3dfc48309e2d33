package db_models

import (
	"time"

	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
)

type PoiEmbedding struct {
	PoiID       string `gorm:"primaryKey;column:poi_id"`
	Name        string
	Description string
	ProvinceID  string
	CategoryID  string
	Tags        pq.StringArray  `gorm:"type:text[]"`
	Embedding   pgvector.Vector `gorm:"type:vector(1536)"`
	CreatedAt   time.Time       `gorm:"autoCreateTime"`
	Similarity  float64         `gorm:"->;-:migration"`
}
