package mjlog

import (
	"bytes"
	"compress/gzip"
	"encoding/xml"
	"fmt"
	"io"
	"os"
)

// ReadLog 读取一个 .mjlog 文件并解析为有序记录。
// 文件可能是 gzip 压缩的也可能是裸 XML：先按 gzip 解压，失败则按原样处理
func ReadLog(path string) ([]Record, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if gz, err := gzip.NewReader(bytes.NewReader(raw)); err == nil {
		if data, err := io.ReadAll(gz); err == nil {
			raw = data
		}
		_ = gz.Close()
	}
	return ParseRecords(bytes.NewReader(raw))
}

// ParseRecords 遍历 XML 标签流，把根元素下的每个元素提取为 (标签, 属性表)。
// 容器本身不合法时整体报错；单条记录的语义问题留给 Classify 处理
func ParseRecords(r io.Reader) ([]Record, error) {
	dec := xml.NewDecoder(r)
	var records []Record
	depth := 0
	sawRoot := false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse mjlog: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			sawRoot = true
			if depth >= 2 {
				attrs := make(map[string]string, len(t.Attr))
				for _, a := range t.Attr {
					attrs[a.Name.Local] = a.Value
				}
				records = append(records, Record{Tag: t.Name.Local, Attrs: attrs})
			}
		case xml.EndElement:
			depth--
		}
	}
	// 裸文本会被 XML 解码器当作字符数据放过，这里要求必须出现根元素
	if !sawRoot {
		return nil, fmt.Errorf("parse mjlog: no root element")
	}
	return records, nil
}
