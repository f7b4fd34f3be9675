package mjlog

import (
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

const sampleXML = `<mjloggm ver="2.3"><INIT seed="0,0,0,0,0,0" oya="0"/><T135/><D0/><N who="2" m="4096"/><AGARI who="1" fromWho="3" hai="0,4,8"/></mjloggm>`

func TestParseRecords(t *testing.T) {
	records, err := ParseRecords(strings.NewReader(sampleXML))
	if err != nil {
		t.Fatalf("ParseRecords: %v", err)
	}
	wantTags := []string{"INIT", "T135", "D0", "N", "AGARI"}
	if len(records) != len(wantTags) {
		t.Fatalf("got %d records, want %d", len(records), len(wantTags))
	}
	for i, tag := range wantTags {
		if records[i].Tag != tag {
			t.Errorf("record %d tag = %q, want %q", i, records[i].Tag, tag)
		}
	}
	if got := records[3].Attrs; got["who"] != "2" || got["m"] != "4096" {
		t.Errorf("N attrs = %v, want who=2 m=4096", got)
	}
	if got := records[4].Attrs["hai"]; got != "0,4,8" {
		t.Errorf("AGARI hai = %q, want 0,4,8", got)
	}
	if len(records[1].Attrs) != 0 {
		t.Errorf("T135 attrs = %v, want empty", records[1].Attrs)
	}
}

func TestParseRecordsMalformed(t *testing.T) {
	if _, err := ParseRecords(strings.NewReader("<mjloggm><T1>")); err == nil {
		t.Fatal("expected error for unclosed document")
	}
	if _, err := ParseRecords(strings.NewReader("not xml at all")); err == nil {
		t.Fatal("expected error for non-XML input")
	}
}

// 同一份内容，裸 XML 与 gzip 压缩两种容器必须读出相同的记录
func TestReadLogPlainAndGzip(t *testing.T) {
	dir := t.TempDir()

	plain := filepath.Join(dir, "plain.mjlog")
	if err := os.WriteFile(plain, []byte(sampleXML), 0o644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write([]byte(sampleXML)); err != nil {
		t.Fatal(err)
	}
	if err := gz.Close(); err != nil {
		t.Fatal(err)
	}
	zipped := filepath.Join(dir, "zipped.mjlog")
	if err := os.WriteFile(zipped, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	fromPlain, err := ReadLog(plain)
	if err != nil {
		t.Fatalf("ReadLog(plain): %v", err)
	}
	fromZipped, err := ReadLog(zipped)
	if err != nil {
		t.Fatalf("ReadLog(gzip): %v", err)
	}
	if !reflect.DeepEqual(fromPlain, fromZipped) {
		t.Errorf("plain and gzip reads differ:\n%v\n%v", fromPlain, fromZipped)
	}
	if len(fromPlain) != 5 {
		t.Errorf("got %d records, want 5", len(fromPlain))
	}
}

func TestReadLogMissingFile(t *testing.T) {
	if _, err := ReadLog(filepath.Join(t.TempDir(), "nope.mjlog")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
