package models

// Category представляет категорию каталога. Корневые категории имеют
// ParentID == nil, дерево строится по ссылке на родителя.
type Category struct {
	ID       int    `json:"categoryId"`
	Name     string `json:"name"`
	ParentID *int   `json:"parentCategoryId,omitempty"`

	// Subcategories заполняется только при чтении одной категории.
	Subcategories []*Category `json:"categories,omitempty"`
}

// DummyCategory используется для приёма данных категории из JSON-запроса.
type DummyCategory struct {
	Name     string `json:"name" validate:"required,min=2,max=128"`
	ParentID *int   `json:"parentCategoryId,omitempty" validate:"omitempty,gt=0"`
}
