package catalog

import "testing"

func TestSameQuery(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{
			name: "identical",
			a:    " SELECT id FROM public.t;",
			b:    " SELECT id FROM public.t;",
			want: true,
		},
		{
			name: "layout only",
			a:    " SELECT t.id,\n    t.name\n   FROM public.t\n  WHERE (t.id > 1);",
			b:    "SELECT t.id, t.name FROM public.t WHERE t.id > 1",
			want: true,
		},
		{
			name: "different constant",
			a:    "SELECT id FROM public.t WHERE status = 'open'",
			b:    "SELECT id FROM public.t WHERE status = 'closed'",
			want: false,
		},
		{
			name: "different column",
			a:    "SELECT id FROM public.t",
			b:    "SELECT name FROM public.t",
			want: false,
		},
		{
			name: "unparsable text compared verbatim",
			a:    "SELEC id FROM",
			b:    "SELEC id FROM ",
			want: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SameQuery(tt.a, tt.b); got != tt.want {
				t.Errorf("SameQuery(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}
