package blob

import (
	"strings"
	"testing"
)

func Test_GenerateKey(t *testing.T) {
	tests := []struct {
		name         string
		originalName string
		partition    string
		wantPrefix   string
		wantSuffix   string
	}{
		{
			name:         "keeps extension and partition",
			originalName: "lasagna.PNG",
			partition:    "recipe",
			wantPrefix:   "recipe/",
			wantSuffix:   ".png",
		},
		{
			name:         "no extension",
			originalName: "photo",
			partition:    "profile",
			wantPrefix:   "profile/",
			wantSuffix:   "",
		},
		{
			name:         "no partition",
			originalName: "a.jpg",
			partition:    "",
			wantPrefix:   "",
			wantSuffix:   ".jpg",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GenerateKey(tt.originalName, tt.partition)
			if !strings.HasPrefix(got, tt.wantPrefix) {
				t.Errorf("GenerateKey() = %v, want prefix %v", got, tt.wantPrefix)
			}
			if !strings.HasSuffix(got, tt.wantSuffix) {
				t.Errorf("GenerateKey() = %v, want suffix %v", got, tt.wantSuffix)
			}
			if tt.partition != "" && strings.Count(got, "/") != 1 {
				t.Errorf("GenerateKey() = %v, want single partition separator", got)
			}
		})
	}
}

func Test_GenerateKey_unique(t *testing.T) {
	seen := map[string]struct{}{}
	for i := 0; i < 100; i++ {
		k := GenerateKey("img.png", "recipe")
		if _, ok := seen[k]; ok {
			t.Fatalf("GenerateKey() produced duplicate %v", k)
		}
		seen[k] = struct{}{}
	}
}
