package luatok

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	lua "github.com/yuin/gopher-lua"
	"github.com/yuin/gopher-lua/parse"
)

// Cache settings for compiled scripts.
const (
	DefaultCacheExpiration = 30 * time.Minute
	DefaultCacheCleanup    = time.Hour
)

// protoCache holds compiled scripts keyed by path, modification time and
// size, so a changed file is recompiled.
var protoCache = gocache.New(DefaultCacheExpiration, DefaultCacheCleanup)

// Compile parses and compiles a script.
func Compile(name string, r io.Reader) (*lua.FunctionProto, error) {
	chunk, err := parse.Parse(r, name)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	proto, err := lua.Compile(chunk, name)
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", name, err)
	}
	return proto, nil
}

// CompileFile compiles the script at path, reusing a cached result when the
// file is unchanged.
func CompileFile(path string) (*lua.FunctionProto, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	key := fmt.Sprintf("%s|%d|%d", path, info.ModTime().UnixNano(), info.Size())
	if v, ok := protoCache.Get(key); ok {
		if proto, ok := v.(*lua.FunctionProto); ok {
			return proto, nil
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	proto, err := Compile(path, f)
	if err != nil {
		return nil, err
	}
	protoCache.Set(key, proto, gocache.DefaultExpiration)
	return proto, nil
}

// Load compiles the script at path and creates a tokenizer from it.
func Load(path string, opts ...Option) (*Tokenizer, error) {
	proto, err := CompileFile(path)
	if err != nil {
		return nil, err
	}
	return New(proto, opts...)
}

// LoadString compiles code and creates a tokenizer from it.
func LoadString(name, code string, opts ...Option) (*Tokenizer, error) {
	proto, err := Compile(name, strings.NewReader(code))
	if err != nil {
		return nil, err
	}
	return New(proto, opts...)
}
