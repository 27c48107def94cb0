package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/felixgeelhaar/timeboard/pkg/domain/board"
)

func TestGroupResolver_Resolve(t *testing.T) {
	r := NewGroupResolver(board.DefaultPolicy())

	tests := []struct {
		name          string
		functionGroup string
		path          string
		want          Ownership
		wantWarning   bool
	}{
		{
			name: "known group with subgroup",
			path: "CRIAÇÃO / Design",
			want: Ownership{Group: "CRIAÇÃO", Subgroup: "Design", FullPath: "CRIAÇÃO / Design"},
		},
		{
			name: "accent and case folded",
			path: "Criacao/Redação/ Textos ",
			want: Ownership{Group: "CRIAÇÃO", Subgroup: "Redação / Textos", FullPath: "Criacao / Redação / Textos"},
		},
		{
			name:          "function group wins over path",
			functionGroup: "tecnologia",
			path:          "Squad Pagamentos",
			want:          Ownership{Group: "TECNOLOGIA", Subgroup: "Squad Pagamentos", FullPath: "Squad Pagamentos"},
		},
		{
			name:          "function group strips matching first segment",
			functionGroup: "MÍDIA",
			path:          "MÍDIA / Social",
			want:          Ownership{Group: "MÍDIA", Subgroup: "Social", FullPath: "MÍDIA / Social"},
		},
		{
			name: "override",
			path: "Bruno Prosperi",
			want: Ownership{Group: "CRIAÇÃO", Subgroup: "Bruno Prosperi", FullPath: "Bruno Prosperi"},
		},
		{
			name:        "unknown goes to Other",
			path:        "Parceiros / Fotografia",
			want:        Ownership{Group: "Other", Subgroup: "Parceiros / Fotografia", FullPath: "Parceiros / Fotografia"},
			wantWarning: true,
		},
		{
			name:        "nothing known",
			path:        "  ",
			want:        Ownership{},
			wantWarning: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, warning := r.Resolve(tt.functionGroup, tt.path)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantWarning, warning != "", "warning = %q", warning)
		})
	}
}

func TestGroupResolver_CustomOther(t *testing.T) {
	p := board.DefaultPolicy()
	p.OtherGroup = "Outros"
	got, _ := NewGroupResolver(p).Resolve("", "Desconhecido")
	assert.Equal(t, "Outros", got.Group)
}
