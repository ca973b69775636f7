package role

// CollectionName is shared by the Mongo collection and the Postgres table.
const CollectionName = "journal_user_roles"

// Journal-scoped role names.
const (
	RoleManager       = "manager"
	RoleEditor        = "editor"
	RoleSectionEditor = "section_editor"
	RoleReviewer      = "reviewer"
	RoleAuthor        = "author"
)

// JournalRole assigns a role to a user within one journal.
type JournalRole struct {
	UserID    string `json:"user_id" bson:"user_id"`
	JournalID string `json:"journal_id" bson:"journal_id"`
	Role      string `json:"role" bson:"role"`
}
