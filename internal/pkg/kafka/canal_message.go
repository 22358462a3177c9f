package kafka

import (
	"errors"

	"github.com/goccy/go-json"
)

const (
	INSERT = "INSERT"
	UPDATE = "UPDATE"
	DELETE = "DELETE"
)

var (
	ErrTableMismatch = errors.New("table name not match")
	ErrEmptyData     = errors.New("data is empty")
)

// CanalMessage Canal 推送到 Kafka 的 JSON 数据结构
type CanalMessage struct {
	ID       int64    `json:"id"`
	Database string   `json:"database"`
	Table    string   `json:"table"`
	PKNames  []string `json:"pkNames"`
	IsDDL    bool     `json:"isDdl"`
	Type     string   `json:"type"`
	ES       int64    `json:"es"`
	TS       int64    `json:"ts"`

	// Data 变更后的行，批量 DELETE 时包含多行
	Data []map[string]interface{} `json:"data"`

	// Old UPDATE 时变更前的字段
	Old []map[string]interface{} `json:"old"`
}

// ParseCanalMessage 解析并校验表名，DDL 与空数据视为无效
func ParseCanalMessage(raw []byte, tableName string) (*CanalMessage, error) {
	var canalMsg CanalMessage
	if err := json.Unmarshal(raw, &canalMsg); err != nil {
		return nil, err
	}
	if canalMsg.Table != tableName {
		return nil, ErrTableMismatch
	}
	if canalMsg.IsDDL || len(canalMsg.Data) == 0 {
		return nil, ErrEmptyData
	}
	return &canalMsg, nil
}

// Changed UPDATE 时判断字段是否被修改
func (m *CanalMessage) Changed(row int, fields ...string) bool {
	if m.Type != UPDATE {
		return true
	}
	if row >= len(m.Old) {
		return false
	}
	for _, f := range fields {
		if _, ok := m.Old[row][f]; ok {
			return true
		}
	}
	return false
}
