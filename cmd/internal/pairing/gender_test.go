package pairing

import (
	"strconv"
	"strings"
	"testing"
)

func TestNormalizeGender(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want Gender
	}{
		{in: "male", want: GenderMale},
		{in: "m", want: GenderMale},
		{in: "M", want: GenderMale},
		{in: "Male", want: GenderMale},
		{in: "  male  ", want: GenderMale},
		{in: "female", want: GenderFemale},
		{in: "f", want: GenderFemale},
		{in: "F", want: GenderFemale},
		{in: "Female", want: GenderFemale},
		{in: "", want: GenderOther},
		{in: "   ", want: GenderOther},
		{in: "nonbinary", want: GenderOther},
		{in: "mael", want: GenderOther},
	}

	for _, tc := range cases {
		if got := NormalizeGender(tc.in); got != tc.want {
			t.Fatalf("NormalizeGender(%q)=%q want=%q", tc.in, got, tc.want)
		}
	}
}

func TestNewDisplayNameFormat(t *testing.T) {
	t.Parallel()

	for i := 0; i < 200; i++ {
		name := newDisplayName()
		if !strings.HasPrefix(name, "User") {
			t.Fatalf("bad prefix: %q", name)
		}
		n, err := strconv.Atoi(strings.TrimPrefix(name, "User"))
		if err != nil {
			t.Fatalf("non-numeric suffix: %q", name)
		}
		if n < 1000 || n > 9999 {
			t.Fatalf("suffix out of range: %q", name)
		}
	}
}
