package domain

type PublicationState string

const (
	StateDraft     PublicationState = "draft"
	StatePublished PublicationState = "published"
	StateArchived  PublicationState = "archived"
	StateScheduled PublicationState = "scheduled"
)

type Product struct {
	ID   uint64 `json:"id" gorm:"primaryKey;autoIncrement"`
	Name string `json:"name" gorm:"not null;index"`
	// Price in minor currency units.
	Price int64 `json:"price" gorm:"not null"`

	// AvailableQuantity and TotalSold are mutated only through the stock
	// ledger's conditional repository operations; AvailableQuantity never
	// goes below zero.
	AvailableQuantity int64 `json:"availableQuantity" gorm:"not null;default:0"`
	TotalSold         int64 `json:"totalSold" gorm:"not null;default:0"`

	State PublicationState `json:"state" gorm:"type:varchar(16);not null;default:'draft'"`
}

func (p *Product) Published() bool {
	return p.State == StatePublished
}
