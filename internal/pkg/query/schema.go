package query

// PropertySchema 房源检索可用字段
var PropertySchema = Schema{
	"title":       {Column: "title", ESField: "title", Text: true},
	"description": {Column: "description", ESField: "description", Text: true},
	"status":      {Column: "status", ESField: "status"},
	"detail":      {Column: "detail", ESField: "detail"},
	"county":      {Column: "county", ESField: "county"},
	"city":        {Column: "city", ESField: "city"},
	"price":       {Column: "price", ESField: "price"},
	"bedrooms":    {Column: "bedrooms", ESField: "bedrooms"},
	"bathrooms":   {Column: "bathrooms", ESField: "bathrooms"},
	"is_active":   {Column: "is_active", ESField: "is_active"},
}

// PostSchema 文章检索可用字段
var PostSchema = Schema{
	"title":     {Column: "title", ESField: "title", Text: true},
	"category":  {Column: "category", ESField: "category"},
	"author_id": {Column: "author_id", ESField: "author_id"},
	"published": {Column: "published", ESField: "published"},
}
