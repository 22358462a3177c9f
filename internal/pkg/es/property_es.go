package es

import (
	"Abode/internal/model"
	"time"
)

// PropertyES 写入 ES 的房源文档
type PropertyES struct {
	ID          uint64    `json:"id"`
	AgentID     uint64    `json:"agent_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Status      string    `json:"status"`
	Detail      string    `json:"detail"`
	County      string    `json:"county"`
	City        string    `json:"city"`
	Bedrooms    int       `json:"bedrooms"`
	Bathrooms   int       `json:"bathrooms"`
	Area        float64   `json:"area"`
	IsActive    bool      `json:"is_active"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func NewPropertyES(p *model.Property) *PropertyES {
	return &PropertyES{
		ID:          p.ID,
		AgentID:     p.AgentID,
		Title:       p.Title,
		Description: p.Description,
		Price:       p.Price,
		Status:      p.Status,
		Detail:      p.Detail,
		County:      p.County,
		City:        p.City,
		Bedrooms:    p.Bedrooms,
		Bathrooms:   p.Bathrooms,
		Area:        p.Area,
		IsActive:    p.IsActive,
		UpdatedAt:   p.UpdatedAt,
	}
}
