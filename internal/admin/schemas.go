package admin

import (
	"strings"

	"github.com/mrlokans/consultorio/internal/blog"
)

var Members = Schema{
	Resource:     "members",
	Title:        "Membro",
	DefaultOrder: "name",
	Fields: []Field{
		{Name: "name", Label: "Nome", Kind: KindText, Required: true, Searchable: true, Sortable: true},
		{Name: "email", Label: "E-mail", Kind: KindEmail, Searchable: true, Sortable: true},
		{Name: "phone", Label: "Telefone", Kind: KindPhone, Searchable: true},
		{Name: "address", Label: "Endereço", Kind: KindText},
		{Name: "birth_date", Label: "Nascimento", Kind: KindDateTime, Sortable: true},
		{Name: "role_id", Label: "Função", Kind: KindRef, Ref: "roles"},
		{Name: "status", Label: "Status", Kind: KindSelect, Options: []string{"active", "inactive"}, Sortable: true},
		{Name: "notes", Label: "Observações", Kind: KindTextarea, Searchable: true},
		{Name: "created_at", Label: "Cadastro", Kind: KindDateTime, Sortable: true, ReadOnly: true},
	},
}

var Consultations = Schema{
	Resource:     "consultations",
	Title:        "Consulta",
	DefaultOrder: "date",
	DefaultDesc:  true,
	Fields: []Field{
		{Name: "client_name", Label: "Cliente", Kind: KindText, Required: true, Searchable: true, Sortable: true},
		{Name: "client_email", Label: "E-mail", Kind: KindEmail, Searchable: true},
		{Name: "client_phone", Label: "Telefone", Kind: KindPhone, Searchable: true},
		{Name: "member_id", Label: "Membro", Kind: KindRef, Ref: "members"},
		{Name: "date", Label: "Data", Kind: KindDate, Required: true, Sortable: true},
		{Name: "time", Label: "Horário", Kind: KindTime, Required: true, Sortable: true},
		{Name: "duration", Label: "Duração (min)", Kind: KindNumber},
		{Name: "price", Label: "Valor", Kind: KindMoney, Sortable: true},
		{Name: "status", Label: "Status", Kind: KindSelect, Options: []string{"pending", "confirmed", "completed", "cancelled"}, Sortable: true},
		{Name: "payment_status", Label: "Pagamento", Kind: KindSelect, Options: []string{"pending", "paid", "refunded"}, Sortable: true},
		{Name: "notes", Label: "Observações", Kind: KindTextarea, Searchable: true},
	},
}

var Products = Schema{
	Resource:     "products",
	Title:        "Produto",
	DefaultOrder: "name",
	Fields: []Field{
		{Name: "name", Label: "Nome", Kind: KindText, Required: true, Searchable: true, Sortable: true},
		{Name: "description", Label: "Descrição", Kind: KindTextarea, Searchable: true},
		{Name: "price", Label: "Preço", Kind: KindMoney, Required: true, Sortable: true},
		{Name: "stock", Label: "Estoque", Kind: KindNumber, Sortable: true},
		{Name: "min_stock", Label: "Estoque mínimo", Kind: KindNumber},
		{Name: "category_id", Label: "Categoria", Kind: KindRef, Ref: "product_categories"},
		{Name: "image_url", Label: "Imagem", Kind: KindText},
		{Name: "active", Label: "Ativo", Kind: KindBool, Sortable: true},
	},
}

var ProductCategories = Schema{
	Resource:     "product_categories",
	Title:        "Categoria",
	DefaultOrder: "name",
	Fields: []Field{
		{Name: "name", Label: "Nome", Kind: KindText, Required: true, Searchable: true, Sortable: true},
		{Name: "description", Label: "Descrição", Kind: KindTextarea, Searchable: true},
		{Name: "active", Label: "Ativa", Kind: KindBool, Sortable: true},
	},
}

var Orders = Schema{
	Resource:     "orders",
	Title:        "Pedido",
	DefaultOrder: "created_at",
	DefaultDesc:  true,
	Fields: []Field{
		{Name: "customer_name", Label: "Cliente", Kind: KindText, Required: true, Searchable: true, Sortable: true},
		{Name: "customer_email", Label: "E-mail", Kind: KindEmail, Searchable: true},
		{Name: "customer_phone", Label: "Telefone", Kind: KindPhone, Searchable: true},
		{Name: "member_id", Label: "Membro", Kind: KindRef, Ref: "members"},
		{Name: "total", Label: "Total", Kind: KindMoney, Required: true, Sortable: true},
		{Name: "status", Label: "Status", Kind: KindSelect, Options: []string{"pending", "paid", "shipped", "delivered", "cancelled"}, Sortable: true},
		{Name: "payment_method", Label: "Forma de pagamento", Kind: KindText},
		{Name: "notes", Label: "Observações", Kind: KindTextarea},
		{Name: "created_at", Label: "Data", Kind: KindDateTime, Sortable: true, ReadOnly: true},
	},
}

var OrderItems = Schema{
	Resource:     "order_items",
	Title:        "Item do pedido",
	DefaultOrder: "created_at",
	Fields: []Field{
		{Name: "order_id", Label: "Pedido", Kind: KindRef, Ref: "orders", Required: true},
		{Name: "product_id", Label: "Produto", Kind: KindRef, Ref: "products", Required: true},
		{Name: "quantity", Label: "Quantidade", Kind: KindNumber, Required: true, Sortable: true},
		{Name: "unit_price", Label: "Preço unitário", Kind: KindMoney, Required: true, Sortable: true},
		{Name: "created_at", Label: "Data", Kind: KindDateTime, Sortable: true, ReadOnly: true},
	},
}

var BlogPosts = Schema{
	Resource:     "blog_posts",
	Title:        "Post",
	DefaultOrder: "created_at",
	DefaultDesc:  true,
	Prepare:      fillSlug,
	Fields: []Field{
		{Name: "title", Label: "Título", Kind: KindText, Required: true, Searchable: true, Sortable: true},
		{Name: "slug", Label: "Slug", Kind: KindText, Required: true, Searchable: true},
		{Name: "excerpt", Label: "Resumo", Kind: KindTextarea, Searchable: true},
		{Name: "content", Label: "Conteúdo (markdown)", Kind: KindTextarea, Required: true},
		{Name: "author", Label: "Autor", Kind: KindText, Searchable: true, Sortable: true},
		{Name: "cover_image", Label: "Capa", Kind: KindText},
		{Name: "published", Label: "Publicado", Kind: KindBool, Sortable: true},
		{Name: "published_at", Label: "Publicado em", Kind: KindDateTime, Sortable: true},
		{Name: "created_at", Label: "Criado em", Kind: KindDateTime, Sortable: true, ReadOnly: true},
	},
}

var Cults = Schema{
	Resource:     "cults",
	Title:        "Culto",
	DefaultOrder: "date",
	Fields: []Field{
		{Name: "name", Label: "Nome", Kind: KindText, Required: true, Searchable: true, Sortable: true},
		{Name: "description", Label: "Descrição", Kind: KindTextarea, Searchable: true},
		{Name: "date", Label: "Data", Kind: KindDate, Required: true, Sortable: true},
		{Name: "time", Label: "Horário", Kind: KindTime, Required: true, Sortable: true},
		{Name: "location", Label: "Local", Kind: KindText, Searchable: true},
		{Name: "recurring", Label: "Recorrente", Kind: KindBool},
		{Name: "active", Label: "Ativo", Kind: KindBool, Sortable: true},
	},
}

var Messages = Schema{
	Resource:     "messages",
	Title:        "Mensagem",
	DefaultOrder: "scheduled_for",
	DefaultDesc:  true,
	Fields: []Field{
		{Name: "recipient_name", Label: "Destinatário", Kind: KindText, Required: true, Searchable: true, Sortable: true},
		{Name: "recipient_email", Label: "E-mail", Kind: KindEmail, Searchable: true},
		{Name: "recipient_phone", Label: "Telefone", Kind: KindPhone, Searchable: true},
		{Name: "type", Label: "Canal", Kind: KindSelect, Options: []string{"whatsapp", "email", "sms"}, Required: true, Sortable: true},
		{Name: "subject", Label: "Assunto", Kind: KindText, Searchable: true},
		{Name: "content", Label: "Conteúdo", Kind: KindTextarea, Required: true, Searchable: true},
		{Name: "status", Label: "Status", Kind: KindSelect, Options: []string{"pending", "sending", "sent", "delivered", "failed"}, Sortable: true, ReadOnly: true},
		{Name: "scheduled_for", Label: "Agendada para", Kind: KindDateTime, Sortable: true},
		{Name: "sent_at", Label: "Enviada em", Kind: KindDateTime, Sortable: true, ReadOnly: true},
		{Name: "error_message", Label: "Erro", Kind: KindText, ReadOnly: true},
	},
}

var MessageTemplates = Schema{
	Resource:     "message_templates",
	Title:        "Modelo de mensagem",
	DefaultOrder: "name",
	Fields: []Field{
		{Name: "name", Label: "Nome", Kind: KindText, Required: true, Searchable: true, Sortable: true},
		{Name: "type", Label: "Canal", Kind: KindSelect, Options: []string{"whatsapp", "email", "sms"}, Sortable: true},
		{Name: "subject", Label: "Assunto", Kind: KindText, Searchable: true},
		{Name: "content", Label: "Conteúdo", Kind: KindTextarea, Required: true, Searchable: true},
		{Name: "active", Label: "Ativo", Kind: KindBool, Sortable: true},
	},
}

var Roles = Schema{
	Resource:     "roles",
	Title:        "Função",
	DefaultOrder: "name",
	Fields: []Field{
		{Name: "name", Label: "Nome", Kind: KindText, Required: true, Searchable: true, Sortable: true},
		{Name: "description", Label: "Descrição", Kind: KindTextarea, Searchable: true},
		{Name: "permissions", Label: "Permissões", Kind: KindText},
	},
}

var EntityTypes = Schema{
	Resource:     "entity_types",
	Title:        "Tipo de entidade",
	DefaultOrder: "name",
	Fields: []Field{
		{Name: "name", Label: "Nome", Kind: KindText, Required: true, Searchable: true, Sortable: true},
		{Name: "description", Label: "Descrição", Kind: KindTextarea, Searchable: true},
		{Name: "color", Label: "Cor", Kind: KindText},
	},
}

var Entities = Schema{
	Resource:     "entities",
	Title:        "Entidade",
	DefaultOrder: "name",
	Fields: []Field{
		{Name: "name", Label: "Nome", Kind: KindText, Required: true, Searchable: true, Sortable: true},
		{Name: "entity_type_id", Label: "Tipo", Kind: KindRef, Ref: "entity_types"},
		{Name: "description", Label: "Descrição", Kind: KindTextarea, Searchable: true},
		{Name: "attributes", Label: "Atributos (JSON)", Kind: KindTextarea},
		{Name: "active", Label: "Ativa", Kind: KindBool, Sortable: true},
	},
}

var Availability = Schema{
	Resource:     "availability",
	Title:        "Horário",
	DefaultOrder: "date",
	Fields: []Field{
		{Name: "date", Label: "Data", Kind: KindDate, Required: true, Sortable: true},
		{Name: "time", Label: "Horário", Kind: KindTime, Required: true, Sortable: true},
		{Name: "available", Label: "Disponível", Kind: KindBool, Sortable: true},
	},
}

// All lists every resource schema in menu order.
func All() []Schema {
	return []Schema{
		Members, Consultations, Availability, Products, ProductCategories, Orders, OrderItems,
		BlogPosts, Cults, Messages, MessageTemplates, Roles, EntityTypes, Entities,
	}
}

// fillSlug derives the slug from the title when none was typed.
func fillSlug(values map[string]any) {
	if !isBlank(values["slug"]) {
		return
	}
	if title, ok := values["title"].(string); ok && strings.TrimSpace(title) != "" {
		values["slug"] = blog.Slug(title)
	}
}
