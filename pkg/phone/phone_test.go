package phone

import "testing"

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "plain e164", in: "+14155551234", want: "+14155551234"},
		{name: "strips formatting", in: "+1 (415) 555-1234", want: "+14155551234"},
		{name: "minimum length", in: "+1234567", want: "+1234567"},
		{name: "maximum length", in: "+123456789012345", want: "+123456789012345"},
		{name: "missing plus", in: "14155551234", wantErr: true},
		{name: "too short", in: "+123456", wantErr: true},
		{name: "too long", in: "+1234567890123456", wantErr: true},
		{name: "empty", in: "", wantErr: true},
		{name: "only formatting after plus", in: "+abc-def", wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Validate(tc.in)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("Validate(%q) = %q, want error", tc.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Validate(%q): %v", tc.in, err)
			}
			if got != tc.want {
				t.Fatalf("Validate(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
