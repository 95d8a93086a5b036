package observability

import (
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"
)

type alertRule struct {
	Alert       string            `yaml:"alert"`
	Expr        string            `yaml:"expr"`
	For         string            `yaml:"for"`
	Labels      map[string]string `yaml:"labels"`
	Annotations map[string]string `yaml:"annotations"`
}

type alertGroup struct {
	Name  string      `yaml:"name"`
	Rules []alertRule `yaml:"rules"`
}

type alertSpec struct {
	Groups []alertGroup `yaml:"groups"`
}

func TestCommerceAlertRules(t *testing.T) {
	path := filepath.Join("..", "..", "deploy", "prometheus", "alerts", "commerce.yml")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read alert file: %v", err)
	}

	var spec alertSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		t.Fatalf("failed to unmarshal alert file: %v", err)
	}

	if len(spec.Groups) == 0 {
		t.Fatal("expected at least one alert group")
	}

	var commerceGroup *alertGroup
	for i := range spec.Groups {
		if spec.Groups[i].Name == "commerce" {
			commerceGroup = &spec.Groups[i]
			break
		}
	}
	if commerceGroup == nil {
		t.Fatal("expected a commerce alert group")
	}

	wanted := map[string]bool{
		"JobFailures":        false,
		"AbandonedCartSpike": false,
		"HighErrorRate":      false,
	}
	for _, rule := range commerceGroup.Rules {
		if rule.Expr == "" {
			t.Errorf("rule %s has no expression", rule.Alert)
		}
		if rule.Labels["severity"] == "" {
			t.Errorf("rule %s has no severity label", rule.Alert)
		}
		if _, ok := wanted[rule.Alert]; ok {
			wanted[rule.Alert] = true
		}
	}
	for name, seen := range wanted {
		if !seen {
			t.Errorf("expected alert rule %s", name)
		}
	}
}
