package api

import "Abode/internal/api/handler"

// HandlersGroup 封装了所有已初始化的 Handler 实例
type HandlersGroup struct {
	ViewHandler     *handler.ViewHandler
	RankingHandler  *handler.RankingHandler
	PropertyHandler *handler.PropertyHandler
}
