package converter

// ProductRedisModel — товар в кэше списка. Цена хранится строкой, чтобы не терять точность.
type ProductRedisModel struct {
	ID          int64  `json:"id"`
	Name        string `json:"nome"`
	Description string `json:"descricao"`
	Price       string `json:"preco"`
	ImageURL    string `json:"imagem_url,omitempty"`
}
