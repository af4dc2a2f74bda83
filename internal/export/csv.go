// Package export 将数据集导出为CSV或Excel。
package export

import (
	"bufio"
	"io"
	"regexp"
	"strings"
)

const bom = "\ufeff"

// Table 待导出的表格
type Table struct {
	Headers []string
	Rows    [][]string
}

// IsCodeColumn 代码类栏位需要保留前导零
func IsCodeColumn(header string) bool {
	h := strings.ToLower(header)
	return strings.Contains(h, "代碼") || strings.Contains(h, "代号") || strings.Contains(h, "代號") || strings.Contains(h, "code")
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// Write 输出带BOM的CSV：CRLF换行，所有值加双引号，代码栏位写成 ="0050"
func Write(w io.Writer, t Table) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(bom); err != nil {
		return err
	}

	codeCols := make([]bool, len(t.Headers))
	for i, h := range t.Headers {
		codeCols[i] = IsCodeColumn(h)
	}

	writeRow := func(cells []string, isHeader bool) error {
		for i, c := range cells {
			if i > 0 {
				if err := bw.WriteByte(','); err != nil {
					return err
				}
			}
			if !isHeader && i < len(codeCols) && codeCols[i] && c != "" {
				c = `="` + c + `"`
			}
			if _, err := bw.WriteString(quote(c)); err != nil {
				return err
			}
		}
		_, err := bw.WriteString("\r\n")
		return err
	}

	if err := writeRow(t.Headers, true); err != nil {
		return err
	}
	for _, row := range t.Rows {
		if err := writeRow(row, false); err != nil {
			return err
		}
	}
	return bw.Flush()
}

var formulaCell = regexp.MustCompile(`"=""([^"]*)"""`)

// StripFormula 去掉导出时代码栏位的 ="..." 包装，供重新解析
func StripFormula(text string) string {
	return formulaCell.ReplaceAllString(text, `"$1"`)
}
