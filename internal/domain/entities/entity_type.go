package entities

// EntityType identifica genericamente linhas heterogêneas (wishlist, reviews, carrinho)
type EntityType string

const (
	EntityProduct    EntityType = "product"
	EntityJob        EntityType = "job"
	EntityEvent      EntityType = "event"
	EntityArtiste    EntityType = "artiste"
	EntityFreelancer EntityType = "freelancer"
)

// AllEntityTypes lista os tipos conhecidos
var AllEntityTypes = []EntityType{EntityProduct, EntityJob, EntityEvent, EntityArtiste, EntityFreelancer}

// IsValid verifica se o tipo é conhecido
func (t EntityType) IsValid() bool {
	for _, et := range AllEntityTypes {
		if et == t {
			return true
		}
	}
	return false
}

// IsPurchasable indica se o tipo pode ir para o carrinho
func (t EntityType) IsPurchasable() bool {
	return t == EntityProduct || t == EntityEvent
}

// ListingRef aponta para uma listagem de qualquer tipo
type ListingRef struct {
	Type    EntityType
	ID      string
	OwnerID string
	Title   string
}
