package domain

type Shopkeeper struct {
	ID        string `db:"id" json:"id"`
	Email     string `db:"email" json:"email"`
	ShopName  string `db:"shop_name" json:"shopName"`
	OwnerName string `db:"owner_name" json:"ownerName"`
	Mobile    string `db:"mobile" json:"mobile"`
	Hash      string `db:"password_hash" json:"-"`
}

// Profile is the display identity other shopkeepers get to see.
type Profile struct {
	ShopName  string `json:"shopName"`
	OwnerName string `json:"ownerName"`
	Mobile    string `json:"mobile"`
}

func (s Shopkeeper) Profile() Profile {
	return Profile{ShopName: s.ShopName, OwnerName: s.OwnerName, Mobile: s.Mobile}
}
