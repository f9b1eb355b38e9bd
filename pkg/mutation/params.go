package mutation

// SearchParams holds the four LAPIS mutation parameters.
type SearchParams struct {
	NucleotideMutations  []string
	AminoAcidMutations   []string
	NucleotideInsertions []string
	AminoAcidInsertions  []string
}

// ToSearchParams buckets queries by base type and mutation type.
func ToSearchParams(queries []Query) SearchParams {
	var p SearchParams
	for _, q := range queries {
		switch {
		case q.BaseType == Nucleotide && q.MutationType == SubstitutionOrDeletion:
			p.NucleotideMutations = append(p.NucleotideMutations, q.LapisQuery)
		case q.BaseType == AminoAcid && q.MutationType == SubstitutionOrDeletion:
			p.AminoAcidMutations = append(p.AminoAcidMutations, q.LapisQuery)
		case q.BaseType == Nucleotide && q.MutationType == Insertion:
			p.NucleotideInsertions = append(p.NucleotideInsertions, q.LapisQuery)
		case q.BaseType == AminoAcid && q.MutationType == Insertion:
			p.AminoAcidInsertions = append(p.AminoAcidInsertions, q.LapisQuery)
		}
	}
	return p
}

// Get returns the bucket for a LAPIS parameter name.
func (p SearchParams) Get(name string) []string {
	switch name {
	case NucleotideMutationsParam:
		return p.NucleotideMutations
	case AminoAcidMutationsParam:
		return p.AminoAcidMutations
	case NucleotideInsertionsParam:
		return p.NucleotideInsertions
	case AminoAcidInsertionsParam:
		return p.AminoAcidInsertions
	default:
		return nil
	}
}

// IsParam reports whether name is one of the four bucket parameters.
func IsParam(name string) bool {
	for _, n := range ParamNames {
		if n == name {
			return true
		}
	}
	return false
}
