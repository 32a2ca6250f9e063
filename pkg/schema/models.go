// Package schema provides GORM models of the PostgreSQL taxonomy
// backend. Tables mirror nodes.dmp, names.dmp and merged.dmp of NCBI
// taxonomy dump.
package schema

// Node is a taxon with a link to its parent.
type Node struct {
	// TaxID is NCBI taxonomy identifier.
	TaxID int `gorm:"column:tax_id;primaryKey;autoIncrement:false"`

	// ParentID is the identifier of the parent node. The root is its
	// own parent.
	ParentID int `gorm:"column:parent_id;not null"`

	// Rank is the taxonomic rank ('species', 'genus', 'no rank'...).
	Rank string `gorm:"column:rank;type:varchar(64);not null;default:''"`
}

// TableName returns the table name for Node.
func (Node) TableName() string { return "nodes" }

// Name is a name-string of a node. A node has exactly one scientific
// name and any number of other names.
type Name struct {
	// TaxID is the identifier of the node.
	TaxID int `gorm:"column:tax_id;not null;index:idx_names_tax_id"`

	// Name is the name-string.
	Name string `gorm:"column:name;type:text;not null;index:idx_names_name"`

	// NameClass is 'scientific name', 'synonym', 'authority',
	// 'genbank common name' etc.
	NameClass string `gorm:"column:name_class;type:varchar(64);not null"`
}

// TableName returns the table name for Name.
func (Name) TableName() string { return "names" }

// Merged maps a retired identifier to its replacement.
type Merged struct {
	OldID int `gorm:"column:old_id;primaryKey;autoIncrement:false"`
	NewID int `gorm:"column:new_id;not null"`
}

// TableName returns the table name for Merged.
func (Merged) TableName() string { return "merged" }
