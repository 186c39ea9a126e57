package prompts

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load は YAML ファイルからテンプレートを読み込む。
// ファイル内で省略された項目には組み込みの既定値を補う。
func Load(path string) (Templates, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Templates{}, fmt.Errorf("プロンプト定義 %s の読み込みに失敗: %w", path, err)
	}

	var loaded Templates
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return Templates{}, fmt.Errorf("プロンプト定義の YAML 解析に失敗: %w", err)
	}

	merged := merge(loaded, Default())
	if err := validate(merged); err != nil {
		return Templates{}, fmt.Errorf("プロンプト定義の検証に失敗: %w", err)
	}
	return merged, nil
}

func merge(loaded, fallback Templates) Templates {
	if strings.TrimSpace(loaded.InterviewerSystem) == "" {
		loaded.InterviewerSystem = fallback.InterviewerSystem
	}
	if strings.TrimSpace(loaded.Opening) == "" {
		loaded.Opening = fallback.Opening
	}
	if strings.TrimSpace(loaded.SummarySystem) == "" {
		loaded.SummarySystem = fallback.SummarySystem
	}
	if strings.TrimSpace(loaded.GroupSystem) == "" {
		loaded.GroupSystem = fallback.GroupSystem
	}
	return loaded
}

func validate(t Templates) error {
	if strings.TrimSpace(t.InterviewerSystem) == "" {
		return fmt.Errorf("interviewer_system が空です")
	}
	if strings.TrimSpace(t.Opening) == "" {
		return fmt.Errorf("opening が空です")
	}
	if strings.TrimSpace(t.SummarySystem) == "" {
		return fmt.Errorf("summary_system が空です")
	}
	if strings.TrimSpace(t.GroupSystem) == "" {
		return fmt.Errorf("group_system が空です")
	}
	return nil
}
