package pairing

import "testing"

func queued(ids ...string) []*Client {
	out := make([]*Client, 0, len(ids))
	for _, id := range ids {
		out = append(out, NewClient(id, 1))
	}
	return out
}

func TestDequeueOppositeOfPolicy(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		male      []string
		female    []string
		other     []string
		requester Gender
		want      string // conn id of expected candidate; "" means none
	}{
		{name: "male takes female head", male: []string{"m1"}, female: []string{"f1", "f2"}, other: []string{"o1"}, requester: GenderMale, want: "f1"},
		{name: "female takes male head", male: []string{"m1", "m2"}, female: []string{"f1"}, other: []string{"o1"}, requester: GenderFemale, want: "m1"},
		{name: "male falls back to other", male: []string{"m1"}, other: []string{"o1"}, requester: GenderMale, want: "o1"},
		{name: "female falls back to other", female: []string{"f1"}, other: []string{"o1"}, requester: GenderFemale, want: "o1"},
		{name: "other scans male first", male: []string{"m1"}, female: []string{"f1"}, requester: GenderOther, want: "m1"},
		{name: "other takes female when no male", female: []string{"f1"}, requester: GenderOther, want: "f1"},
		{name: "same class only yields none", male: []string{"m1", "m2"}, requester: GenderMale, want: ""},
		{name: "same class only yields none for other", other: []string{"o1"}, requester: GenderOther, want: ""},
		{name: "all empty yields none", requester: GenderFemale, want: ""},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			p := newWaitPool()
			for _, c := range queued(tc.male...) {
				p.Enqueue(GenderMale, c)
			}
			for _, c := range queued(tc.female...) {
				p.Enqueue(GenderFemale, c)
			}
			for _, c := range queued(tc.other...) {
				p.Enqueue(GenderOther, c)
			}

			got := p.DequeueOppositeOf(tc.requester)
			switch {
			case tc.want == "" && got != nil:
				t.Fatalf("got candidate %q, want none", got.ConnID)
			case tc.want != "" && got == nil:
				t.Fatalf("got none, want %q", tc.want)
			case tc.want != "" && got.ConnID != tc.want:
				t.Fatalf("got %q, want %q", got.ConnID, tc.want)
			}
		})
	}
}

func TestWaitPoolFIFOWithinClass(t *testing.T) {
	t.Parallel()

	p := newWaitPool()
	f1 := NewClient("f1", 1)
	f2 := NewClient("f2", 1)
	p.Enqueue(GenderFemale, f1)
	p.Enqueue(GenderFemale, f2)

	if got := p.DequeueOppositeOf(GenderMale); got != f1 {
		t.Fatalf("first dequeue got %v, want f1", got)
	}
	if got := p.DequeueOppositeOf(GenderMale); got != f2 {
		t.Fatalf("second dequeue got %v, want f2", got)
	}
	if got := p.DequeueOppositeOf(GenderMale); got != nil {
		t.Fatalf("third dequeue got %v, want nil", got)
	}
}

func TestWaitPoolRemoveIdempotent(t *testing.T) {
	t.Parallel()

	p := newWaitPool()
	c := NewClient("c1", 1)
	p.Enqueue(GenderOther, c)

	if !p.Remove(c) {
		t.Fatalf("first remove should find the client")
	}
	if p.Remove(c) {
		t.Fatalf("second remove should be a no-op")
	}
	if p.Contains(c) {
		t.Fatalf("client still present after removal")
	}
	if p.Len(GenderOther) != 0 {
		t.Fatalf("queue not empty after removal")
	}
}

func TestWaitPoolRemovePreservesOrder(t *testing.T) {
	t.Parallel()

	p := newWaitPool()
	m1 := NewClient("m1", 1)
	m2 := NewClient("m2", 1)
	m3 := NewClient("m3", 1)
	p.Enqueue(GenderMale, m1)
	p.Enqueue(GenderMale, m2)
	p.Enqueue(GenderMale, m3)

	p.Remove(m2)

	if got := p.DequeueOppositeOf(GenderFemale); got != m1 {
		t.Fatalf("got %v, want m1", got)
	}
	if got := p.DequeueOppositeOf(GenderFemale); got != m3 {
		t.Fatalf("got %v, want m3", got)
	}
}
