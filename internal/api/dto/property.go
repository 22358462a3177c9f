package dto

import "time"

// PropertyDTO 房源
type PropertyDTO struct {
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
	ViewsCount  int64     `json:"views_count"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PropertySearchDTO 房源检索条件，均为可选
type PropertySearchDTO struct {
	Keyword     string   `form:"keyword" binding:"omitempty,max=64"`
	Status      []string `form:"status" binding:"omitempty,dive,oneof=sale rent sold"`
	Detail      string   `form:"detail" binding:"omitempty,max=64"`
	County      string   `form:"county" binding:"omitempty,max=64"`
	City        string   `form:"city" binding:"omitempty,max=64"`
	MinPrice    *float64 `form:"min_price" binding:"omitempty,gte=0"`
	MaxPrice    *float64 `form:"max_price" binding:"omitempty,gte=0"`
	MinBedrooms *int     `form:"min_bedrooms" binding:"omitempty,gte=0"`
	Page        int      `form:"page" binding:"omitempty,gte=1"`
	PageSize    int      `form:"page_size" binding:"omitempty,gte=1,lte=50"`
}

// PropertyPageDTO 房源检索分页结果
type PropertyPageDTO struct {
	Items    []*PropertyDTO `json:"items"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
	Source   string         `json:"source"` // es | db
}
