package domain

import (
	"encoding/json"
	"sort"
	"time"
)

const (
	ErrCodeHeaderFailed  = "header_failed"
	ErrCodeScanFailed    = "scan_failed"
	ErrCodeWriteFailed   = "write_failed"
	ErrCodePreviewFailed = "preview_failed"
	ErrCodeCanceled      = "canceled"
)

// RunReport 是对外稳定输出（--json）的结构。
type RunReport struct {
	Path    string `json:"path"`
	Output  string `json:"output"`
	Preview string `json:"preview,omitempty"`
	DryRun  bool   `json:"dry_run"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	Summary ReportSummary `json:"summary"`
	Groups  []GroupResult `json:"groups"`

	// Unclassified 是通过扩展名过滤、但没有进入任何槽位的文件名（例如 .gif）。
	Unclassified []string `json:"unclassified"`
}

type ReportSummary struct {
	Files        int `json:"files"`
	Groups       int `json:"groups"`
	Unclassified int `json:"unclassified"`
}

type GroupResult struct {
	Identifier   string `json:"identifier"`
	Title        string `json:"title"`
	Shader       string `json:"shader,omitempty"`
	Screenshot   string `json:"screenshot,omitempty"`
	ExampleImage string `json:"example_image,omitempty"`
	Project      string `json:"project,omitempty"`
}

// NewGroupResult 把 AssetGroup 投影为报告条目。
func NewGroupResult(g AssetGroup) GroupResult {
	return GroupResult{
		Identifier:   g.Identifier,
		Title:        g.Title,
		Shader:       g.Shader,
		Screenshot:   g.Screenshot,
		ExampleImage: g.ExampleImage,
		Project:      g.Project,
	}
}

// Finalize 做三件事：
// 1) 时间统一为 UTC（确保 JSON 为 RFC3339 且后缀 Z）
// 2) groups 按 identifier 字典序、unclassified 按文件名排序
// 3) summary 中的 groups/unclassified 由列表计算得出（files 由调用方填写）
func (r *RunReport) Finalize() {
	r.StartedAt = r.StartedAt.UTC()
	r.FinishedAt = r.FinishedAt.UTC()

	if r.Groups == nil {
		r.Groups = []GroupResult{}
	}
	if r.Unclassified == nil {
		r.Unclassified = []string{}
	}

	sort.SliceStable(r.Groups, func(i, j int) bool {
		return r.Groups[i].Identifier < r.Groups[j].Identifier
	})
	sort.Strings(r.Unclassified)

	r.Summary.Groups = len(r.Groups)
	r.Summary.Unclassified = len(r.Unclassified)
}

// MarshalJSON 仅用于集中约束输出的稳定性（避免未来不小心引入非确定字段）。
// 当前只是透传 encoding/json 的默认行为。
func (r RunReport) MarshalJSON() ([]byte, error) {
	type Alias RunReport
	return json.Marshal(Alias(r))
}
