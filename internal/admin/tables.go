package admin

import (
	"gorm.io/gorm"

	"github.com/mrlokans/consultorio/internal/database/resource"
	"github.com/mrlokans/consultorio/internal/entities"
	"github.com/mrlokans/consultorio/internal/notify"
)

// Tables holds one table per back office resource, all sharing a notifier.
type Tables struct {
	Members           *Table[entities.Member]
	Consultations     *Table[entities.Consultation]
	Availability      *Table[entities.AvailabilitySlot]
	Products          *Table[entities.Product]
	ProductCategories *Table[entities.ProductCategory]
	Orders            *Table[entities.Order]
	OrderItems        *Table[entities.OrderItem]
	BlogPosts         *Table[entities.BlogPost]
	Cults             *Table[entities.Cult]
	Messages          *Table[entities.Message]
	MessageTemplates  *Table[entities.MessageTemplate]
	Roles             *Table[entities.Role]
	EntityTypes       *Table[entities.EntityType]
	Entities          *Table[entities.Entity]
}

func NewTables(db *gorm.DB, notifier notify.Notifier) *Tables {
	return &Tables{
		Members:           NewTable(Members, resource.NewRepository[entities.Member](db), notifier),
		Consultations:     NewTable(Consultations, resource.NewRepository[entities.Consultation](db), notifier),
		Availability:      NewTable(Availability, resource.NewRepository[entities.AvailabilitySlot](db), notifier),
		Products:          NewTable(Products, resource.NewRepository[entities.Product](db), notifier),
		ProductCategories: NewTable(ProductCategories, resource.NewRepository[entities.ProductCategory](db), notifier),
		Orders:            NewTable(Orders, resource.NewRepository[entities.Order](db), notifier),
		OrderItems:        NewTable(OrderItems, resource.NewRepository[entities.OrderItem](db), notifier),
		BlogPosts:         NewTable(BlogPosts, resource.NewRepository[entities.BlogPost](db), notifier),
		Cults:             NewTable(Cults, resource.NewRepository[entities.Cult](db), notifier),
		Messages:          NewTable(Messages, resource.NewRepository[entities.Message](db), notifier),
		MessageTemplates:  NewTable(MessageTemplates, resource.NewRepository[entities.MessageTemplate](db), notifier),
		Roles:             NewTable(Roles, resource.NewRepository[entities.Role](db), notifier),
		EntityTypes:       NewTable(EntityTypes, resource.NewRepository[entities.EntityType](db), notifier),
		Entities:          NewTable(Entities, resource.NewRepository[entities.Entity](db), notifier),
	}
}
