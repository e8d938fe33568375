package server

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/xuri/excelize/v2"
)

func dialTestServer(t *testing.T, opts Options) (*websocket.Conn, context.Context) {
	t.Helper()
	srv := httptest.NewServer(New(opts).Handler())
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", url, err)
	}
	t.Cleanup(func() { conn.CloseNow() })
	conn.SetReadLimit(32 << 20)
	return conn, ctx
}

func send(t *testing.T, ctx context.Context, conn *websocket.Conn, msgs ...string) {
	t.Helper()
	for _, m := range msgs {
		if err := conn.Write(ctx, websocket.MessageText, []byte(m)); err != nil {
			t.Fatalf("write %s: %v", m, err)
		}
	}
}

func TestSession_BuildsWorkbook(t *testing.T) {
	conn, ctx := dialTestServer(t, Options{})
	send(t, ctx, conn,
		`{"type":"author","author":"Ops"}`,
		`{"type":"sheet","name":"Report","widths":[22]}`,
		`{"type":"row","values":["region","units"]}`,
		`{"type":"row","values":["north",42]}`,
		`{"type":"row","values":["south",12.5,null,true]}`,
		`{"type":"sheet","name":"Notes"}`,
		`{"type":"row","values":["ok"]}`,
		`{"type":"done"}`,
	)

	typ, data, err := conn.Read(ctx)
	if err != nil {
		t.Fatalf("read archive: %v", err)
	}
	if typ != websocket.MessageBinary {
		t.Fatalf("message type = %v, want binary", typ)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("excelize could not read the archive: %v", err)
	}
	defer f.Close()

	if got := f.GetSheetList(); len(got) != 2 || got[0] != "Report" || got[1] != "Notes" {
		t.Fatalf("GetSheetList = %v, want [Report Notes]", got)
	}
	cells := map[string]string{
		"A1": "region",
		"B2": "42",
		"B3": "12.5",
		"C3": "",
		"D3": "1",
	}
	for cell, want := range cells {
		got, err := f.GetCellValue("Report", cell)
		if err != nil {
			t.Fatalf("GetCellValue(%s): %v", cell, err)
		}
		if got != want {
			t.Errorf("Report!%s = %q, want %q", cell, got, want)
		}
	}
	if got, _ := f.GetCellValue("Notes", "A1"); got != "ok" {
		t.Errorf("Notes!A1 = %q, want ok", got)
	}
	if w, _ := f.GetColWidth("Report", "A"); w != 22 {
		t.Errorf("Report column A width = %v, want 22", w)
	}
	props, err := f.GetDocProps()
	if err != nil {
		t.Fatalf("GetDocProps: %v", err)
	}
	if props.Creator != "Ops" {
		t.Errorf("Creator = %q, want Ops", props.Creator)
	}

	if _, _, err := conn.Read(ctx); websocket.CloseStatus(err) != websocket.StatusNormalClosure {
		t.Errorf("expected normal closure, got %v", err)
	}
}

func TestSession_DefaultSheet(t *testing.T) {
	conn, ctx := dialTestServer(t, Options{DefaultSheetName: "Data", ColumnWidth: 15})
	send(t, ctx, conn,
		`{"type":"row","values":["a","b"]}`,
		`{"type":"row","values":["c"]}`,
		`{"type":"done"}`,
	)

	_, data, err := conn.Read(ctx)
	if err != nil {
		t.Fatalf("read archive: %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("excelize could not read the archive: %v", err)
	}
	defer f.Close()

	if got := f.GetSheetList(); len(got) != 1 || got[0] != "Data" {
		t.Fatalf("GetSheetList = %v, want [Data]", got)
	}
	if got, _ := f.GetCellValue("Data", "A2"); got != "c" {
		t.Errorf("Data!A2 = %q, want c", got)
	}
	for _, col := range []string{"A", "B"} {
		if w, _ := f.GetColWidth("Data", col); w != 15 {
			t.Errorf("column %s width = %v, want 15", col, w)
		}
	}
}

func TestSession_EmptyDocument(t *testing.T) {
	conn, ctx := dialTestServer(t, Options{})
	send(t, ctx, conn, `{"type":"done"}`)

	_, data, err := conn.Read(ctx)
	if err != nil {
		t.Fatalf("read archive: %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("excelize could not read the archive: %v", err)
	}
	defer f.Close()
	if got := f.GetSheetList(); len(got) != 1 || got[0] != "Sheet1" {
		t.Errorf("GetSheetList = %v, want [Sheet1]", got)
	}
}

func TestSession_ProtocolErrors(t *testing.T) {
	tests := []struct {
		name string
		msgs []string
		want string
	}{
		{"unknown type", []string{`{"type":"explode"}`}, `unknown message type \"explode\"`},
		{"invalid json", []string{`{"type":`}, "invalid message"},
		{"duplicate sheet", []string{`{"type":"sheet","name":"A"}`, `{"type":"sheet","name":"A"}`}, "duplicate sheet name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn, ctx := dialTestServer(t, Options{})
			send(t, ctx, conn, tt.msgs...)

			typ, data, err := conn.Read(ctx)
			if err != nil {
				t.Fatalf("read error message: %v", err)
			}
			if typ != websocket.MessageText {
				t.Fatalf("message type = %v, want text", typ)
			}
			if !strings.Contains(string(data), `"type":"error"`) || !strings.Contains(string(data), tt.want) {
				t.Errorf("error message = %s, want it to mention %s", data, tt.want)
			}

			_, _, err = conn.Read(ctx)
			if got := websocket.CloseStatus(err); got != websocket.StatusUnsupportedData {
				t.Errorf("close status = %v, want %v", got, websocket.StatusUnsupportedData)
			}
		})
	}
}

func TestSession_RejectsBinaryInput(t *testing.T) {
	conn, ctx := dialTestServer(t, Options{})
	if err := conn.Write(ctx, websocket.MessageBinary, []byte{1, 2, 3}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, _, err := conn.Read(ctx); err != nil {
		t.Fatalf("read error message: %v", err)
	}
	_, _, err := conn.Read(ctx)
	if got := websocket.CloseStatus(err); got != websocket.StatusUnsupportedData {
		t.Errorf("close status = %v, want %v", got, websocket.StatusUnsupportedData)
	}
}

func TestHealthz(t *testing.T) {
	srv := httptest.NewServer(New(Options{}).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusNoContent)
	}
}
