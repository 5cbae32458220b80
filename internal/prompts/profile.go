package prompts

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Profile is the candidate profile generated replies are grounded in.
type Profile struct {
	Name       string `yaml:"name"`
	Title      string `yaml:"title"`
	Summary    string `yaml:"summary"`
	Experience []struct {
		Role         string   `yaml:"role"`
		Company      string   `yaml:"company"`
		Period       string   `yaml:"period"`
		Description  string   `yaml:"description"`
		Technologies []string `yaml:"technologies"`
	} `yaml:"experience"`
	Education []struct {
		Degree      string `yaml:"degree"`
		Field       string `yaml:"field"`
		Institution string `yaml:"institution"`
		Period      string `yaml:"period"`
	} `yaml:"education"`
	Skills    map[string][]string `yaml:"skills"`
	Languages []struct {
		Language string `yaml:"language"`
		Level    string `yaml:"level"`
	} `yaml:"languages"`
	Projects []struct {
		Name        string `yaml:"name"`
		Description string `yaml:"description"`
	} `yaml:"projects"`
	Preferences struct {
		WorkType          string `yaml:"work_type"`
		NoticePeriod      string `yaml:"notice_period"`
		WillingToRelocate bool   `yaml:"willing_to_relocate"`
	} `yaml:"preferences"`
}

// LoadProfile reads a candidate profile from a YAML file. A missing file is
// not an error: replies then fall back to general professional etiquette.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Profile{}, nil
		}
		return nil, fmt.Errorf("failed to read profile file: %w", err)
	}

	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse profile file: %w", err)
	}
	return &p, nil
}

// RenderSummary renders the profile as a plain-text block for prompt injection.
func (p *Profile) RenderSummary() string {
	if p == nil || (p.Name == "" && p.Summary == "" && len(p.Experience) == 0) {
		return "No candidate profile loaded. Respond based on general professional etiquette."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s  |  Title: %s\n", p.Name, p.Title)
	if p.Summary != "" {
		fmt.Fprintf(&b, "Summary: %s\n", p.Summary)
	}
	if len(p.Experience) > 0 {
		b.WriteString("\nExperience:\n")
		for _, exp := range p.Experience {
			fmt.Fprintf(&b, "  - %s @ %s (%s)\n    %s\n    Tech: %s\n",
				exp.Role, exp.Company, exp.Period, exp.Description, strings.Join(exp.Technologies, ", "))
		}
	}
	if len(p.Education) > 0 {
		b.WriteString("\nEducation:\n")
		for _, edu := range p.Education {
			fmt.Fprintf(&b, "  - %s %s — %s (%s)\n", edu.Degree, edu.Field, edu.Institution, edu.Period)
		}
	}
	if len(p.Skills) > 0 {
		b.WriteString("\nSkills:\n")
		categories := make([]string, 0, len(p.Skills))
		for category := range p.Skills {
			categories = append(categories, category)
		}
		sort.Strings(categories)
		for _, category := range categories {
			fmt.Fprintf(&b, "  %s: %s\n", category, strings.Join(p.Skills[category], ", "))
		}
	}
	if len(p.Languages) > 0 {
		langs := make([]string, 0, len(p.Languages))
		for _, l := range p.Languages {
			langs = append(langs, fmt.Sprintf("%s: %s", l.Language, l.Level))
		}
		fmt.Fprintf(&b, "\nLanguages: %s\n", strings.Join(langs, ", "))
	}
	if len(p.Projects) > 0 {
		b.WriteString("\nKey Projects:\n")
		for _, proj := range p.Projects {
			fmt.Fprintf(&b, "  - %s: %s\n", proj.Name, proj.Description)
		}
	}
	if p.Preferences.WorkType != "" || p.Preferences.NoticePeriod != "" {
		relocate := "No"
		if p.Preferences.WillingToRelocate {
			relocate = "Yes"
		}
		fmt.Fprintf(&b, "\nPreferences: %s | Notice: %s | Relocate: %s\n",
			p.Preferences.WorkType, p.Preferences.NoticePeriod, relocate)
	}
	return b.String()
}
