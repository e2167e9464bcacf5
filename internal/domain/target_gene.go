package domain

import "time"

const (
	CategoryProteinCoding  = "Protein coding"
	CategoryRegulatory     = "Regulatory"
	CategoryOtherNoncoding = "Other noncoding"

	SequenceTypeDNA     = "dna"
	SequenceTypeProtein = "protein"

	DbEnsembl = "Ensembl"
	DbUniProt = "UniProt"
	DbRefSeq  = "RefSeq"
)

type TargetGene struct {
	ID                  int64                         `gorm:"primaryKey;autoIncrement" json:"id"`
	ScoreSetID          int64                         `gorm:"not null;column:score_set_id;uniqueIndex" json:"score_set_id"`
	Name                string                        `gorm:"not null;column:name" json:"name"`
	Category            string                        `gorm:"not null;column:category" json:"category"`
	WildTypeSequenceID  int64                         `gorm:"not null;column:wt_seq_id" json:"wt_seq_id"`
	WildTypeSequence    *WildTypeSequence             `gorm:"foreignKey:WildTypeSequenceID" json:"wt_sequence,omitempty"`
	ExternalIdentifiers []*TargetGeneIdentifierOffset `gorm:"foreignKey:TargetGeneID" json:"external_identifiers,omitempty"`
	ReferenceMaps       []*ReferenceMap               `gorm:"foreignKey:TargetGeneID" json:"reference_maps,omitempty"`
	CreatedAt           time.Time                     `gorm:"not null" json:"created_at"`
	UpdatedAt           time.Time                     `gorm:"not null" json:"updated_at"`
}

func (TargetGene) TableName() string { return "target_genes" }

type WildTypeSequence struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	SequenceType string    `gorm:"not null;column:sequence_type" json:"sequence_type"`
	Sequence     string    `gorm:"type:text;not null;column:sequence" json:"sequence"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null" json:"updated_at"`
}

func (WildTypeSequence) TableName() string { return "wild_type_sequences" }

// TargetGeneIdentifierOffset links a target gene to an external identifier with the
// position offset of the target sequence inside the referenced record.
type TargetGeneIdentifierOffset struct {
	TargetGeneID         int64               `gorm:"primaryKey;column:target_gene_id" json:"target_gene_id"`
	ExternalIdentifierID int64               `gorm:"primaryKey;column:external_identifier_id" json:"external_identifier_id"`
	ExternalIdentifier   *ExternalIdentifier `gorm:"foreignKey:ExternalIdentifierID" json:"identifier,omitempty"`
	Offset               int                 `gorm:"not null;column:offset" json:"offset"`
}

func (TargetGeneIdentifierOffset) TableName() string { return "target_gene_identifier_offsets" }

type ReferenceMap struct {
	ID           int64            `gorm:"primaryKey;autoIncrement" json:"id"`
	TargetGeneID int64            `gorm:"not null;column:target_id;index" json:"target_id"`
	GenomeID     int64            `gorm:"not null;column:genome_id" json:"genome_id"`
	Genome       *ReferenceGenome `gorm:"foreignKey:GenomeID" json:"genome,omitempty"`
	IsPrimary    bool             `gorm:"not null;column:is_primary" json:"is_primary"`
	CreatedAt    time.Time        `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time        `gorm:"not null" json:"updated_at"`
}

func (ReferenceMap) TableName() string { return "reference_maps" }
