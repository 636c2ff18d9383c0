package models

// Favorite is a saved food-lookup result. Its identity for the diary is
// the (Code, Info) pair; the server row id is a storage handle only.
type Favorite struct {
	ID    string
	Code  string
	Name  string
	Image string
	Carbs *float64
	Info  string
}

// SameAs reports whether two favorites denote the same product, by the
// canonical (code, info) key.
func (f *Favorite) SameAs(other *Favorite) bool {
	return f.Code == other.Code && f.Info == other.Info
}
