package ports

// OrderNumberGenerator gera números de pedido legíveis e ordenáveis
type OrderNumberGenerator interface {
	NextOrderNumber() string
}

// CartTokenIssuer emite tokens opacos para carrinhos de visitantes.
// Apenas o hash do token é persistido.
type CartTokenIssuer interface {
	NewToken() string
	Hash(token string) string
}
