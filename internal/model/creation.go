package model

// NewItemData validates rawURL and resolves the title for a new item.
// It is the only way to build an ItemData and has no side effects.
func NewItemData(rawURL, explicitTitle string) (ItemData, error) {
	u, err := ValidateURL(rawURL)
	if err != nil {
		return ItemData{}, &CreationError{Err: err}
	}

	return ItemData{
		URL:   u.String(),
		Title: DeriveTitle(explicitTitle, u),
	}, nil
}
