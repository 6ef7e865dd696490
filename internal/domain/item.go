package domain

// Item is a row of the product table
type Item struct {
	Key   string  `yaml:"item_number"`
	Name  string  `yaml:"item_name"`
	Price float64 `yaml:"item_price"`
}
