//go:build integration

package integration

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/fivetwenty-io/robolt-go/pkg/robolt"
)

const (
	// TestClientID and TestClientSecret are accepted by the fake token endpoint.
	TestClientID     = "robolt-it"
	TestClientSecret = "robolt-it-secret"

	thumbnailSize = 8
)

// userSchema is sent the way robogo sends schemas: the User reference is only
// expanded on its first occurrence.
const userSchema = `[
	{"name": "Name", "key": "name", "type": "String", "required": true},
	{"name": "Email", "key": "email", "type": "String"},
	{"name": "Manager", "key": "manager", "type": "Object", "ref": "User", "subfields": [
		{"name": "Name", "key": "name", "type": "String", "required": true},
		{"name": "Manager", "key": "manager", "type": "Object", "ref": "User"}
	]},
	{"name": "Team", "key": "team", "type": "Object", "ref": "Team", "subfields": [
		{"name": "Title", "key": "title", "type": "String"},
		{"name": "Lead", "key": "lead", "type": "Object", "ref": "User"}
	]}
]`

// FakeRobogo is an in-memory robogo server mounted under Prefix.
type FakeRobogo struct {
	*httptest.Server

	Prefix string

	mutex      sync.Mutex
	documents  map[string][]robolt.Document
	files      map[string]*robolt.RoboFile
	blobs      map[string][]byte
	tokens     map[string]bool
	tokenCount int
	requests   []string
}

// NewFakeRobogo starts a fake robogo server. It is closed when the test ends.
func NewFakeRobogo(t *testing.T) *FakeRobogo {
	t.Helper()

	fake := &FakeRobogo{
		Prefix:    "api",
		documents: make(map[string][]robolt.Document),
		files:     make(map[string]*robolt.RoboFile),
		blobs:     make(map[string][]byte),
		tokens:    make(map[string]bool),
	}

	router := mux.NewRouter()
	router.HandleFunc("/oauth/token", fake.issueToken).Methods(http.MethodPost)

	api := router.PathPrefix("/" + fake.Prefix).Subrouter()
	api.Use(fake.recordRequests, fake.requireToken)
	fake.RegisterRoutes(api)

	fake.Server = httptest.NewServer(router)
	t.Cleanup(fake.Close)

	return fake
}

// RegisterRoutes registers the robogo routes.
func (f *FakeRobogo) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/create/{model}", f.create).Methods(http.MethodPost)
	router.HandleFunc("/read/{model}", f.read).Methods(http.MethodGet)
	router.HandleFunc("/get/{model}/{id}", f.get).Methods(http.MethodGet)
	router.HandleFunc("/search/{model}", f.search).Methods(http.MethodGet)
	router.HandleFunc("/update/{model}", f.update).Methods(http.MethodPatch)
	router.HandleFunc("/delete/{model}/{id}", f.delete).Methods(http.MethodDelete)
	router.HandleFunc("/count/{model}", f.count).Methods(http.MethodGet)
	router.HandleFunc("/runner/{service}/{fn}", f.runner).Methods(http.MethodPost)
	router.HandleFunc("/getter/{service}/{fn}", f.getter).Methods(http.MethodGet)
	router.HandleFunc("/fileupload", f.fileUpload).Methods(http.MethodPost)
	router.HandleFunc("/fileclone/{id}", f.fileClone).Methods(http.MethodPost)
	router.HandleFunc("/filedelete/{id}", f.fileDelete).Methods(http.MethodDelete)
	router.HandleFunc("/static/{key}", f.static).Methods(http.MethodGet)
	router.HandleFunc("/model", f.models).Methods(http.MethodGet)
	router.HandleFunc("/model/{name}", f.model).Methods(http.MethodGet)
	router.HandleFunc("/schema/{model}", f.schema).Methods(http.MethodGet)
	router.HandleFunc("/fields/{model}", f.schema).Methods(http.MethodGet)
	router.HandleFunc("/accesses/{model}", f.accesses).Methods(http.MethodGet)
	router.HandleFunc("/accessesGroups", f.accessGroups).Methods(http.MethodGet)
}

// Config returns a client configuration authenticating with client credentials.
func (f *FakeRobogo) Config() *robolt.Config {
	return &robolt.Config{
		BaseURL:      f.URL,
		Prefix:       f.Prefix,
		ClientID:     TestClientID,
		ClientSecret: TestClientSecret,
	}
}

// ExpireTokens invalidates every issued token.
func (f *FakeRobogo) ExpireTokens() {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	f.tokens = make(map[string]bool)
}

// TokensIssued returns the number of tokens issued so far.
func (f *FakeRobogo) TokensIssued() int {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	return f.tokenCount
}

// Requests returns "METHOD path" for every API request received.
func (f *FakeRobogo) Requests() []string {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	return append([]string(nil), f.requests...)
}

func (f *FakeRobogo) recordRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mutex.Lock()
		f.requests = append(f.requests, r.Method+" "+r.URL.Path)
		f.mutex.Unlock()

		next.ServeHTTP(w, r)
	})
}

func (f *FakeRobogo) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")

		f.mutex.Lock()
		valid := f.tokens[token]
		f.mutex.Unlock()

		if !valid {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid token"})

			return
		}

		next.ServeHTTP(w, r)
	})
}

func (f *FakeRobogo) issueToken(w http.ResponseWriter, r *http.Request) {
	err := r.ParseForm()
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_request"})

		return
	}

	clientID, clientSecret, ok := r.BasicAuth()
	if !ok {
		clientID, clientSecret = r.Form.Get("client_id"), r.Form.Get("client_secret")
	}

	if r.Form.Get("grant_type") != "client_credentials" || clientID != TestClientID || clientSecret != TestClientSecret {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid_client"})

		return
	}

	f.mutex.Lock()
	f.tokenCount++
	token := fmt.Sprintf("token-%d", f.tokenCount)
	f.tokens[token] = true
	f.mutex.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"access_token": token,
		"token_type":   "bearer",
		"expires_in":   3600,
	})
}

func (f *FakeRobogo) create(w http.ResponseWriter, r *http.Request) {
	var doc robolt.Document

	if !decodeBody(w, r, &doc) {
		return
	}

	doc["_id"] = uuid.NewString()

	f.mutex.Lock()
	model := mux.Vars(r)["model"]
	f.documents[model] = append(f.documents[model], doc)
	f.mutex.Unlock()

	writeJSON(w, http.StatusOK, doc)
}

func (f *FakeRobogo) read(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	filter, ok := parseFilter(w, query.Get("filter"))
	if !ok {
		return
	}

	docs := f.matching(mux.Vars(r)["model"], filter)
	sortDocuments(docs, query.Get("sort"))

	skip, _ := strconv.Atoi(query.Get("skip"))
	docs = docs[min(skip, len(docs)):]

	if limit, err := strconv.Atoi(query.Get("limit")); err == nil && limit < len(docs) {
		docs = docs[:limit]
	}

	writeJSON(w, http.StatusOK, project(docs, query["projection[]"]))
}

func (f *FakeRobogo) get(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	docs := f.matching(vars["model"], robolt.Document{"_id": vars["id"]})
	if len(docs) == 0 {
		writeJSON(w, http.StatusOK, nil)

		return
	}

	writeJSON(w, http.StatusOK, project(docs, r.URL.Query()["projection[]"])[0])
}

func (f *FakeRobogo) search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	filter, ok := parseFilter(w, query.Get("filter"))
	if !ok {
		return
	}

	term := strings.ToLower(query.Get("term"))
	keys := query["keys[]"]

	found := []robolt.Document{}

	for _, doc := range f.matching(mux.Vars(r)["model"], filter) {
		for key, value := range doc {
			text, isString := value.(string)
			if !isString || (len(keys) > 0 && !contains(keys, key)) {
				continue
			}

			if strings.Contains(strings.ToLower(text), term) {
				found = append(found, doc)

				break
			}
		}
	}

	writeJSON(w, http.StatusOK, project(found, query["projection[]"]))
}

func (f *FakeRobogo) update(w http.ResponseWriter, r *http.Request) {
	var changes robolt.Document

	if !decodeBody(w, r, &changes) {
		return
	}

	f.mutex.Lock()
	defer f.mutex.Unlock()

	modified := 0

	for _, doc := range f.documents[mux.Vars(r)["model"]] {
		if doc.ID() != changes.ID() {
			continue
		}

		for key, value := range changes {
			doc[key] = value
		}

		modified++
	}

	writeJSON(w, http.StatusOK, map[string]int{"n": modified, "nModified": modified, "ok": 1})
}

func (f *FakeRobogo) delete(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	f.mutex.Lock()
	defer f.mutex.Unlock()

	kept := f.documents[vars["model"]][:0]
	deleted := 0

	for _, doc := range f.documents[vars["model"]] {
		if doc.ID() == vars["id"] {
			deleted++

			continue
		}

		kept = append(kept, doc)
	}

	f.documents[vars["model"]] = kept

	writeJSON(w, http.StatusOK, map[string]int{"n": deleted, "deletedCount": deleted, "ok": 1})
}

func (f *FakeRobogo) count(w http.ResponseWriter, r *http.Request) {
	filter, ok := parseFilter(w, r.URL.Query().Get("filter"))
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, len(f.matching(mux.Vars(r)["model"], filter)))
}

func (f *FakeRobogo) runner(w http.ResponseWriter, r *http.Request) {
	var params any

	if !decodeBody(w, r, &params) {
		return
	}

	vars := mux.Vars(r)
	writeJSON(w, http.StatusOK, map[string]any{"service": vars["service"], "function": vars["fn"], "params": params})
}

func (f *FakeRobogo) getter(w http.ResponseWriter, r *http.Request) {
	query := map[string]string{}
	for key := range r.URL.Query() {
		query[key] = r.URL.Query().Get(key)
	}

	vars := mux.Vars(r)
	writeJSON(w, http.StatusOK, map[string]any{"service": vars["service"], "function": vars["fn"], "query": query})
}

func (f *FakeRobogo) fileUpload(w http.ResponseWriter, r *http.Request) {
	upload, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})

		return
	}
	defer func() { _ = upload.Close() }()

	data, err := io.ReadAll(upload)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})

		return
	}

	file := &robolt.RoboFile{
		Name:       header.Filename,
		Size:       int64(len(data)),
		MimeType:   header.Header.Get("Content-Type"),
		Extension:  strings.TrimPrefix(filepath.Ext(header.Filename), "."),
		UploadDate: time.Now().UTC().Truncate(time.Second),
	}
	file.IsImage = strings.HasPrefix(file.MimeType, "image/")

	writeJSON(w, http.StatusOK, f.store(file, data))
}

func (f *FakeRobogo) fileClone(w http.ResponseWriter, r *http.Request) {
	f.mutex.Lock()
	original, ok := f.files[mux.Vars(r)["id"]]
	f.mutex.Unlock()

	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "File not found"})

		return
	}

	clone := *original

	f.mutex.Lock()
	data := f.blobs[original.Path]
	f.mutex.Unlock()

	writeJSON(w, http.StatusOK, f.store(&clone, data))
}

func (f *FakeRobogo) fileDelete(w http.ResponseWriter, r *http.Request) {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	file, ok := f.files[mux.Vars(r)["id"]]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "File not found"})

		return
	}

	delete(f.files, file.ID)
	delete(f.blobs, file.Path)
	delete(f.blobs, file.ThumbnailPath)

	writeJSON(w, http.StatusOK, map[string]int{"deletedCount": 1, "ok": 1})
}

func (f *FakeRobogo) static(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	f.mutex.Lock()
	data, ok := f.blobs[key]

	mimeType := "application/octet-stream"

	for _, file := range f.files {
		if file.Path == key || file.ThumbnailPath == key {
			mimeType = file.MimeType
		}
	}
	f.mutex.Unlock()

	if !ok {
		http.NotFound(w, r)

		return
	}

	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	_, _ = w.Write(data)
}

func (f *FakeRobogo) models(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, []map[string]string{
		{"name": "Team", "displayName": "Teams"},
		{"name": "User", "displayName": "Users"},
	})
}

func (f *FakeRobogo) model(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"name": mux.Vars(r)["name"], "displayName": mux.Vars(r)["name"] + "s"})
}

func (f *FakeRobogo) schema(w http.ResponseWriter, r *http.Request) {
	if mux.Vars(r)["model"] != "User" {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Model not found"})

		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = io.WriteString(w, userSchema)
}

func (f *FakeRobogo) accesses(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, robolt.AccessDescriptor{
		Model: robolt.ModelAccess{Read: true, Write: true},
		Fields: map[string]robolt.FieldAccess{
			"name":  {Read: true, Write: true},
			"email": {Read: true},
		},
	})
}

func (f *FakeRobogo) accessGroups(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, []string{"admin", "editor", "viewer"})
}

// store assigns file a new _id and storage keys and keeps data under them.
func (f *FakeRobogo) store(file *robolt.RoboFile, data []byte) *robolt.RoboFile {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	file.ID = uuid.NewString()
	file.Path = file.ID + filepath.Ext(file.Name)
	file.ThumbnailPath = ""
	f.blobs[file.Path] = data

	if file.IsImage {
		file.ThumbnailPath = file.ID + "_thumb" + filepath.Ext(file.Name)
		f.blobs[file.ThumbnailPath] = data[:min(thumbnailSize, len(data))]
	}

	f.files[file.ID] = file

	return file
}

// matching returns copies of the documents of model equal to filter on every
// filter key.
func (f *FakeRobogo) matching(model string, filter robolt.Document) []robolt.Document {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	docs := []robolt.Document{}

	for _, doc := range f.documents[model] {
		if matches(doc, filter) {
			docs = append(docs, copyDocument(doc))
		}
	}

	return docs
}

func matches(doc, filter robolt.Document) bool {
	for key, expected := range filter {
		if fmt.Sprint(doc[key]) != fmt.Sprint(expected) {
			return false
		}
	}

	return true
}

func copyDocument(doc robolt.Document) robolt.Document {
	copied := make(robolt.Document, len(doc))
	for key, value := range doc {
		copied[key] = value
	}

	return copied
}

// sortDocuments applies the first key of a JSON sort object.
func sortDocuments(docs []robolt.Document, rawSort string) {
	if rawSort == "" {
		return
	}

	decoder := json.NewDecoder(strings.NewReader(rawSort))
	if token, err := decoder.Token(); err != nil || token != json.Delim('{') {
		return
	}

	keyToken, err := decoder.Token()
	if err != nil {
		return
	}

	key, isKey := keyToken.(string)
	if !isKey {
		return
	}

	var order int
	if decoder.Decode(&order) != nil {
		return
	}

	sort.SliceStable(docs, func(i, j int) bool {
		if order < 0 {
			i, j = j, i
		}

		return fmt.Sprint(docs[i][key]) < fmt.Sprint(docs[j][key])
	})
}

func project(docs []robolt.Document, fields []string) []robolt.Document {
	if len(fields) == 0 {
		return docs
	}

	projected := make([]robolt.Document, 0, len(docs))

	for _, doc := range docs {
		kept := robolt.Document{"_id": doc["_id"]}
		for _, field := range fields {
			if value, ok := doc[field]; ok {
				kept[field] = value
			}
		}

		projected = append(projected, kept)
	}

	return projected
}

func parseFilter(w http.ResponseWriter, raw string) (robolt.Document, bool) {
	filter := robolt.Document{}
	if raw == "" {
		return filter, true
	}

	err := json.Unmarshal([]byte(raw), &filter)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid filter"})

		return nil, false
	}

	return filter, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, target any) bool {
	err := json.NewDecoder(r.Body).Decode(target)
	if err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid body"})

		return false
	}

	return true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func contains(values []string, value string) bool {
	for _, candidate := range values {
		if candidate == value {
			return true
		}
	}

	return false
}
