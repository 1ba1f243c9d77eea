package templates

import (
	"fmt"
	"strings"

	"sitecost/services"
)

func money(v float64) string {
	return services.FormatCurrency(v)
}

func pct(v float64) string {
	return services.FormatPercent(v)
}

func qty(v float64) string {
	return services.FormatQty(v)
}

// num renders a float for an <input type="number"> value.
func num(v float64) string {
	s := fmt.Sprintf("%.4f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

func humanize(s string) string {
	s = strings.ReplaceAll(s, "_", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// humanizedOptions turns raw status values into select options.
func humanizedOptions(values []string) []services.SelectOption {
	opts := make([]services.SelectOption, len(values))
	for i, v := range values {
		opts[i] = services.SelectOption{Value: v, Label: humanize(v)}
	}
	return opts
}

// varianceClass colours a cost difference: positive means over the estimate.
func varianceClass(diff float64) string {
	switch {
	case diff > 0:
		return "over"
	case diff < 0:
		return "under"
	default:
		return ""
	}
}

func projectPath(projectID string) string {
	return "/projects/" + projectID
}

func estimatePath(projectID, estimateID string) string {
	return projectPath(projectID) + "/estimates/" + estimateID
}

// PerformanceLabel is the display text of a margin performance label.
func PerformanceLabel(p services.Performance) string {
	return humanize(string(p))
}
