package models

type ImportResult struct {
	CategoriesCreated int      `json:"categoriesCreated"`
	ItemsCreated      int      `json:"itemsCreated"`
	CategoriesSeen    int      `json:"categoriesSeen"`
	ItemsSeen         int      `json:"itemsSeen"`
	Warnings          []string `json:"warnings"`
}
