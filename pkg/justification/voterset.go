package justification

import "github.com/bridgecore/finality-bridge/pkg/bridgetypes"

// VoterSet wraps an AuthoritySet with the weight lookups and quorum
// threshold the finality-gadget's commit-validation routine needs (spec
// §4.E step 3, §6 "VoterSet construction from [(AuthorityId, Weight)]").
type VoterSet struct {
	weightByID  map[bridgetypes.AuthorityID]uint64
	totalWeight uint64
}

// NewVoterSet builds a VoterSet from an ordered authority set.
func NewVoterSet(authorities bridgetypes.AuthoritySet) *VoterSet {
	v := &VoterSet{weightByID: make(map[bridgetypes.AuthorityID]uint64, len(authorities))}
	for _, a := range authorities {
		v.weightByID[a.ID] = a.Weight
		v.totalWeight += a.Weight
	}
	return v
}

// Weight returns id's voting weight and whether id is a known voter.
func (v *VoterSet) Weight(id bridgetypes.AuthorityID) (uint64, bool) {
	w, ok := v.weightByID[id]
	return w, ok
}

// TotalWeight is the sum of every voter's weight.
func (v *VoterSet) TotalWeight() uint64 {
	return v.totalWeight
}

// ThresholdWeight is the minimum weight strictly greater than 2/3 of
// TotalWeight — the finality gadget's quorum rule (spec §3 "AuthoritySet").
// Grounded on the (totalWeight*numerator)/denominator + 1 shape of
// ThresholdConfig.CalculateThresholdWeight in the teacher's attestation
// strategy package.
func (v *VoterSet) ThresholdWeight() uint64 {
	return (v.totalWeight*2)/3 + 1
}

// IsThresholdMet reports whether achieved weight clears ThresholdWeight.
func (v *VoterSet) IsThresholdMet(achieved uint64) bool {
	return achieved >= v.ThresholdWeight()
}
