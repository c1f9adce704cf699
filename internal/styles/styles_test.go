package styles

import (
	"testing"

	"github.com/xonecas/gtatools/internal/config"
)

func TestForTheme(t *testing.T) {
	tests := []struct {
		theme config.Theme
		light bool
		want  string
	}{
		{config.ThemeAuto, true, "Latte"},
		{config.ThemeAuto, false, "Mocha"},
		{config.ThemeLatte, false, "Latte"},
		{config.ThemeFrappe, true, "Frappe"},
		{config.ThemeMacchiato, true, "Macchiato"},
		{config.ThemeMocha, true, "Mocha"},
	}

	for _, tt := range tests {
		t.Run(tt.theme.String(), func(t *testing.T) {
			if got := ForTheme(tt.theme, tt.light).Name; got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestUseSwitchesColors(t *testing.T) {
	defer Use(Mocha)

	Use(Latte)
	if Current().Name != "Latte" {
		t.Fatalf("got %s, want Latte", Current().Name)
	}
	if ColorBg != Latte.Base || ColorBrand != Latte.Mauve {
		t.Errorf("colors not switched: bg=%s brand=%s", ColorBg, ColorBrand)
	}
}
