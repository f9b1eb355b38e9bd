package download

import (
	"fmt"

	"github.com/yumyai/seqportal/pkg/reference"
)

// Field names and values forced onto downloads.
const (
	VersionStatusField     = "versionStatus"
	IsRevocationField      = "isRevocation"
	DataUseTermsField      = "dataUseTerms"
	LatestVersion          = "LATEST_VERSION"
	DataUseTermsOpen       = "OPEN"
	DefaultMetadataFormat  = "tsv"
	DefaultFastaHeaderTmpl = "{accessionVersion}"
)

type DataTypeKind string

const (
	Metadata                     DataTypeKind = "metadata"
	UnalignedNucleotideSequences DataTypeKind = "unalignedNucleotideSequences"
	AlignedNucleotideSequences   DataTypeKind = "alignedNucleotideSequences"
	AlignedAminoAcidSequences    DataTypeKind = "alignedAminoAcidSequences"
)

type Compression string

const (
	NoCompression Compression = ""
	Gzip          Compression = "gzip"
	Zstd          Compression = "zstd"
)

func ParseCompression(s string) (Compression, error) {
	switch Compression(s) {
	case NoCompression, Gzip, Zstd:
		return Compression(s), nil
	case "none":
		return NoCompression, nil
	default:
		return NoCompression, fmt.Errorf("unknown compression '%s'", s)
	}
}

func ParseDataTypeKind(s string) (DataTypeKind, error) {
	switch DataTypeKind(s) {
	case Metadata, UnalignedNucleotideSequences, AlignedNucleotideSequences, AlignedAminoAcidSequences:
		return DataTypeKind(s), nil
	default:
		return "", fmt.Errorf("unknown download data type '%s'", s)
	}
}

type RichFastaHeaders struct {
	Include             bool
	FastaHeaderOverride string
}

// DataType is the requested data shape. Segment and Gene are only set for
// sequence downloads that need one.
type DataType struct {
	Kind             DataTypeKind
	Fields           []string
	Segment          *reference.SequenceName
	Gene             *reference.SequenceName
	RichFastaHeaders RichFastaHeaders
}

// Option is built fresh for each download request and never stored.
type Option struct {
	DataType          DataType
	IncludeOldData    bool
	IncludeRestricted bool
	Compression       Compression
}
