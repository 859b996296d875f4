package site

import "fmt"

// Labels are the locale-dependent strings of the pagination controls
type Labels struct {
	Prev     string
	Next     string
	AllYears string
	Empty    string
	pageFmt  string
}

// PageInfo renders "Page x / y" in the locale
func (l Labels) PageInfo(current, total int) string {
	return fmt.Sprintf(l.pageFmt, current, total)
}

var (
	english = Labels{Prev: "Prev", Next: "Next", AllYears: "All", Empty: "No activities", pageFmt: "Page %d / %d"}
	chinese = Labels{Prev: "上一页", Next: "下一页", AllYears: "全部", Empty: "暂无记录", pageFmt: "第 %d / %d 页"}
)

// LabelsFor returns the strings for the zh locale when chinese is set,
// English otherwise
func LabelsFor(isChinese bool) Labels {
	if isChinese {
		return chinese
	}
	return english
}
