package dto

// RecordViewDTO 浏览记录结果
type RecordViewDTO struct {
	Success        bool   `json:"success"`
	EventID        uint64 `json:"event_id,omitempty"`
	RecencyUpdated bool   `json:"recency_updated"`
	Error          string `json:"error,omitempty"`
}

// ListLimitDTO 列表类接口的数量参数
type ListLimitDTO struct {
	Limit int `form:"limit" binding:"omitempty,gte=1,lte=50"`
}

// ResolveDTO 批量还原实体
type ResolveDTO struct {
	IDs []uint64 `json:"ids" binding:"required,max=50"`
}
