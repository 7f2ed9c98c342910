package models

// Feature именованная характеристика, привязанная к категории,
// например "цвет" для одежды. Конкретные значения хранятся на артикулах.
type Feature struct {
	ID         int    `json:"featureId"`
	Name       string `json:"name"`
	CategoryID int    `json:"categoryId"`
}

// ArticleFeature значение характеристики у конкретного артикула.
type ArticleFeature struct {
	FeatureID int    `json:"featureId"`
	Name      string `json:"name"`
	Value     string `json:"value"`
}

// DummyFeature используется для приёма данных характеристики из JSON-запроса.
type DummyFeature struct {
	Name       string `json:"name" validate:"required,min=2,max=128"`
	CategoryID int    `json:"categoryId" validate:"required,gt=0"`
}
