package models

import "time"

// Статусы артикула в каталоге.
const (
	ArticleAvailable = "available"
	ArticleVisible   = "visible"
	ArticleHidden    = "hidden"
)

// Article представляет артикул каталога вместе с историей цен,
// фотографиями и значениями характеристик. История цен упорядочена
// по возрастанию CreatedAt: порядок вставки совпадает с хронологическим,
// последняя запись — текущая цена. У созданного артикула всегда есть
// хотя бы одна запись цены.
type Article struct {
	ID          int              `json:"articleId"`
	Name        string           `json:"name"`
	CategoryID  int              `json:"categoryId"`
	Excerpt     string           `json:"excerpt"`
	Description string           `json:"description"`
	Status      string           `json:"status"`
	IsPromoted  bool             `json:"isPromoted"`
	Category    *Category        `json:"category,omitempty"`
	Prices      []ArticlePrice   `json:"articlePrices,omitempty"`
	Features    []ArticleFeature `json:"articleFeatures,omitempty"`
	Photos      []Photo          `json:"photos,omitempty"`
}

// ArticlePrice одна запись истории цен артикула.
type ArticlePrice struct {
	ID        int       `json:"articlePriceId"`
	Price     float64   `json:"price"`
	CreatedAt time.Time `json:"createdAt"`
}

// CurrentPrice возвращает цену, действующую сейчас, — последнюю запись истории.
func (a *Article) CurrentPrice() float64 {
	if len(a.Prices) == 0 {
		return 0
	}
	return a.Prices[len(a.Prices)-1].Price
}

// Photo фотография артикула, файл хранится на диске по ImagePath.
type Photo struct {
	ID        int    `json:"photoId"`
	ArticleID int    `json:"articleId"`
	ImagePath string `json:"imagePath"`
}

// DummyArticle используется для приёма данных артикула из JSON-запроса.
// Цена приходит отдельным полем: при создании она становится первой записью
// истории, при обновлении — добавляется новой записью, если изменилась.
type DummyArticle struct {
	Name        string              `json:"name" validate:"required,min=2,max=128"`
	CategoryID  int                 `json:"categoryId" validate:"required,gt=0"`
	Excerpt     string              `json:"excerpt" validate:"required,max=255"`
	Description string              `json:"description" validate:"required"`
	Status      string              `json:"status" validate:"required,oneof=available visible hidden"`
	IsPromoted  bool                `json:"isPromoted"`
	Price       float64             `json:"price" validate:"required,gt=0"`
	Features    []DummyFeatureValue `json:"features" validate:"omitempty,dive"`
}

// DummyFeatureValue значение характеристики, привязываемое к артикулу.
type DummyFeatureValue struct {
	FeatureID int    `json:"featureId" validate:"required,gt=0"`
	Value     string `json:"value" validate:"required,max=255"`
}

// ArticleSearchFilter фильтр поиска артикулов по категории.
type ArticleSearchFilter struct {
	CategoryID     int                 `json:"categoryId" validate:"required,gt=0"`
	Keywords       string              `json:"keywords" validate:"max=128"`
	PriceMin       *float64            `json:"priceMin" validate:"omitempty,gte=0"`
	PriceMax       *float64            `json:"priceMax" validate:"omitempty,gte=0"`
	Features       []DummyFeatureValue `json:"features" validate:"omitempty,dive"`
	OrderBy        string              `json:"orderBy" validate:"omitempty,oneof=name price"`
	OrderDirection string              `json:"orderDirection" validate:"omitempty,oneof=asc desc"`
}
