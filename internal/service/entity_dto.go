package service

import (
	"Abode/internal/api/dto"
	"Abode/internal/model"

	"github.com/jinzhu/copier"
)

// ToEntityDTOs 实体转返回结构，保持顺序
func ToEntityDTOs(items []model.Trackable) []interface{} {
	res := make([]interface{}, 0, len(items))
	for _, item := range items {
		switch v := item.(type) {
		case *model.Property:
			res = append(res, toPropertyDTO(v))
		case *model.Post:
			out := &dto.PostDTO{}
			_ = copier.Copy(out, v)
			res = append(res, out)
		}
	}
	return res
}
