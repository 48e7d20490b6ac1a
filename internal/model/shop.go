package model

// Shop is the singleton shop profile printed on every document.
type Shop struct {
	Name    string `json:"name" mapstructure:"name"`
	Address string `json:"address" mapstructure:"address"`
	Phone   string `json:"phone" mapstructure:"phone"`
	GST     string `json:"gst" mapstructure:"gst"` // tax id
}

// DefaultShop is used until configuration provides a profile.
func DefaultShop() Shop {
	return Shop{
		Name:    "My Shop",
		Address: "123 Main Street, City, State, ZIP",
		Phone:   "123-456-7890",
		GST:     "GSTIN123456",
	}
}
