package entity

// All lists every table in migration order.
func All() []any {
	return []any{
		&User{},
		&Baker{},
		&Category{},
		&Recipe{},
		&RecipeImage{},
		&Follower{},
		&SeenRecipe{},
		&Purchase{},
		&Review{},
		&ReviewImage{},
		&SellerVerification{},
		&EmailOTP{},
	}
}
