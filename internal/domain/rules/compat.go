package rules

import "github.com/NhutViet/tinder-backend/internal/domain/enums"

// PrefAdmits reports whether a stated preference admits a gender.
// "all" admits every gender; "male" and "female" admit exactly that
// gender, which leaves "other" reachable only through "all".
func PrefAdmits(pref enums.InterestedIn, gender enums.Gender) bool {
	switch pref {
	case enums.InterestedInAll:
		return gender == enums.GenderMale || gender == enums.GenderFemale || gender == enums.GenderOther
	case enums.InterestedInMale:
		return gender == enums.GenderMale
	case enums.InterestedInFemale:
		return gender == enums.GenderFemale
	default:
		return false
	}
}

// Compatible holds when preference matching succeeds in both directions:
// the viewer wants to see the candidate's gender AND the candidate wants
// to see the viewer's gender. A one-sided match is not enough.
func Compatible(viewerPref enums.InterestedIn, viewerGender enums.Gender, candidatePref enums.InterestedIn, candidateGender enums.Gender) bool {
	return PrefAdmits(viewerPref, candidateGender) && PrefAdmits(candidatePref, viewerGender)
}

// GendersFor expands a preference into the concrete set of genders it
// admits, for pushing the viewer-side half of the filter into SQL.
func GendersFor(pref enums.InterestedIn) []enums.Gender {
	switch pref {
	case enums.InterestedInAll:
		return []enums.Gender{enums.GenderMale, enums.GenderFemale, enums.GenderOther}
	case enums.InterestedInMale:
		return []enums.Gender{enums.GenderMale}
	case enums.InterestedInFemale:
		return []enums.Gender{enums.GenderFemale}
	default:
		return nil
	}
}
