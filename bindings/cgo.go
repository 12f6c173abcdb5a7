package main

/*
#include <stdlib.h>
*/
import "C"
import (
	"encoding/json"
	"sync"
	"unsafe"

	"github.com/vellumdb/VellumDB"
	"github.com/vellumdb/VellumDB/core"
	"github.com/vellumdb/VellumDB/db"
	"github.com/vellumdb/VellumDB/ps"
)

// Handle represents an open database instance. Statement execution is
// serialized per handle because every mutation advances the same Git
// HEAD and the session carries open-transaction state.
type Handle struct {
	instance *VellumDB.Instance
	session  *db.Session
	mu       sync.Mutex
}

var (
	handlesMu  sync.Mutex
	handles    = make(map[int]*Handle)
	nextHandle = 1
)

func registerHandle(h *Handle) int {
	handlesMu.Lock()
	defer handlesMu.Unlock()
	handle := nextHandle
	nextHandle++
	handles[handle] = h
	return handle
}

func lookupHandle(handle int) (*Handle, bool) {
	handlesMu.Lock()
	defer handlesMu.Unlock()
	h, ok := handles[handle]
	return h, ok
}

// Response mirrors the server protocol for consistency
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Type    string          `json:"type,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
}

type QueryResponse struct {
	Columns         []string   `json:"columns"`
	Data            [][]string `json:"data"`
	RecordsRead     int        `json:"records_read"`
	ExecutionTimeMs float64    `json:"execution_time_ms"`
	ExecutionOps    int        `json:"execution_ops"`
}

type CommitResponse struct {
	Message          string  `json:"message,omitempty"`
	DatabasesCreated int     `json:"databases_created,omitempty"`
	DatabasesDeleted int     `json:"databases_deleted,omitempty"`
	TablesCreated    int     `json:"tables_created,omitempty"`
	TablesDeleted    int     `json:"tables_deleted,omitempty"`
	TablesAltered    int     `json:"tables_altered,omitempty"`
	RecordsWritten   int     `json:"records_written,omitempty"`
	RecordsDeleted   int     `json:"records_deleted,omitempty"`
	ExecutionTimeMs  float64 `json:"execution_time_ms"`
	ExecutionOps     int     `json:"execution_ops"`
}

var bindingIdentity = core.Identity{
	Name:  "VellumDB Bindings",
	Email: "bindings@vellumdb.local",
}

//export vellumdb_open_memory
func vellumdb_open_memory() C.int {
	persistence, err := ps.NewMemoryPersistence()
	if err != nil {
		return -1
	}

	instance := VellumDB.Open(&persistence)
	handle := registerHandle(&Handle{
		instance: instance,
		session:  instance.Session(bindingIdentity),
	})

	return C.int(handle)
}

//export vellumdb_open_file
func vellumdb_open_file(path *C.char) C.int {
	goPath := C.GoString(path)

	persistence, err := ps.NewFilePersistence(goPath, nil)
	if err != nil {
		return -1
	}

	instance := VellumDB.Open(&persistence)
	handle := registerHandle(&Handle{
		instance: instance,
		session:  instance.Session(bindingIdentity),
	})

	return C.int(handle)
}

//export vellumdb_close
func vellumdb_close(handle C.int) {
	handlesMu.Lock()
	defer handlesMu.Unlock()
	delete(handles, int(handle))
}

//export vellumdb_execute
func vellumdb_execute(handle C.int, query *C.char) *C.char {
	h, ok := lookupHandle(int(handle))
	if !ok {
		return makeErrorResponse("Invalid handle")
	}

	return C.CString(h.execute(C.GoString(query)))
}

// execute runs one statement under the handle lock and returns the
// JSON response body.
func (h *Handle) execute(query string) string {
	h.mu.Lock()
	result, err := h.session.Execute(query)
	h.mu.Unlock()

	if err == db.ErrSessionClosed {
		resp := Response{Success: true, Type: "closed"}
		jsonData, _ := json.Marshal(resp)
		return string(jsonData)
	}
	if err != nil {
		resp := Response{Success: false, Error: err.Error()}
		jsonData, _ := json.Marshal(resp)
		return string(jsonData)
	}

	var resp Response

	switch r := result.(type) {
	case db.QueryResult:
		qr := QueryResponse{
			Columns:         r.Columns,
			Data:            r.Data,
			RecordsRead:     r.RecordsRead,
			ExecutionTimeMs: r.ExecutionTimeSec * 1000,
			ExecutionOps:    r.ExecutionOps,
		}
		data, _ := json.Marshal(qr)
		resp = Response{
			Success: true,
			Type:    "query",
			Result:  data,
		}

	case db.CommitResult:
		cr := CommitResponse{
			Message:          r.Message,
			DatabasesCreated: r.DatabasesCreated,
			DatabasesDeleted: r.DatabasesDeleted,
			TablesCreated:    r.TablesCreated,
			TablesDeleted:    r.TablesDeleted,
			TablesAltered:    r.TablesAltered,
			RecordsWritten:   r.RecordsWritten,
			RecordsDeleted:   r.RecordsDeleted,
			ExecutionTimeMs:  r.ExecutionTimeSec * 1000,
			ExecutionOps:     r.ExecutionOps,
		}
		data, _ := json.Marshal(cr)
		resp = Response{
			Success: true,
			Type:    "commit",
			Result:  data,
		}

	default:
		resp = Response{
			Success: true,
			Type:    "unknown",
		}
	}

	jsonData, _ := json.Marshal(resp)
	return string(jsonData)
}

//export vellumdb_free
func vellumdb_free(ptr *C.char) {
	C.free(unsafe.Pointer(ptr))
}

func makeErrorResponse(msg string) *C.char {
	resp := Response{
		Success: false,
		Error:   msg,
	}
	jsonData, _ := json.Marshal(resp)
	return C.CString(string(jsonData))
}

func main() {}
