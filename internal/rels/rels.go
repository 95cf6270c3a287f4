// Package rels reads the OPC relationship parts of a workbook package.
package rels

import (
	"encoding/xml"
	"fmt"
	"path"
	"strings"
)

type relationships struct {
	Items []struct {
		ID     string `xml:"Id,attr"`
		Target string `xml:"Target,attr"`
	} `xml:"Relationship"`
}

// Parse decodes a .rels part into a map from relationship id to target.
func Parse(data []byte) (map[string]string, error) {
	var r relationships
	if err := xml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("rels: %w", err)
	}
	m := make(map[string]string, len(r.Items))
	for _, it := range r.Items {
		m[it.ID] = it.Target
	}
	return m, nil
}

// Resolve turns a target found in the relationships of the part at source
// into an archive path. Absolute targets start at the package root.
//
//	Resolve("xl/workbook.bin", "worksheets/sheet1.bin") == "xl/worksheets/sheet1.bin"
func Resolve(source, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	return path.Join(path.Dir(source), target)
}

// For returns the path of the relationship part describing source.
//
//	For("xl/workbook.bin") == "xl/_rels/workbook.bin.rels"
func For(source string) string {
	return path.Join(path.Dir(source), "_rels", path.Base(source)+".rels")
}
