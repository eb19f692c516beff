package tui

import (
	"strings"

	"github.com/MKhiriev/go-zk-vault/models"
)

func renderBuildInfo(info models.AppBuildInfo) string {
	var b strings.Builder

	b.WriteString("Application: zkvault")
	for _, f := range info.Fields() {
		b.WriteString("\n")
		b.WriteString(f.Name)
		b.WriteString(": ")
		b.WriteString(f.Value)
	}

	return renderPage("ABOUT", b.String(), "esc: back")
}
