package enums

import (
	"fmt"
	"strings"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

type InterestedIn string

const (
	InterestedInMale   InterestedIn = "male"
	InterestedInFemale InterestedIn = "female"
	InterestedInAll    InterestedIn = "all"
)

func ParseGender(input string) (Gender, error) {
	switch Gender(strings.ToLower(strings.TrimSpace(input))) {
	case GenderMale:
		return GenderMale, nil
	case GenderFemale:
		return GenderFemale, nil
	case GenderOther:
		return GenderOther, nil
	default:
		return "", fmt.Errorf("unknown gender %q", input)
	}
}

func ParseInterestedIn(input string) (InterestedIn, error) {
	switch InterestedIn(strings.ToLower(strings.TrimSpace(input))) {
	case InterestedInMale:
		return InterestedInMale, nil
	case InterestedInFemale:
		return InterestedInFemale, nil
	case InterestedInAll:
		return InterestedInAll, nil
	default:
		return "", fmt.Errorf("unknown interested_in %q", input)
	}
}
