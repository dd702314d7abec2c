package types

import "errors"

// SymbolKind represents the kind of code entity a symbol describes
type SymbolKind string

const (
	KindFunction  SymbolKind = "function"
	KindMethod    SymbolKind = "method"
	KindClass     SymbolKind = "class"
	KindInterface SymbolKind = "interface"
	KindType      SymbolKind = "type"
	KindConst     SymbolKind = "const"
	KindVar       SymbolKind = "var"
	KindModule    SymbolKind = "module"
)

// SymbolVisibility represents the declared visibility of a symbol
type SymbolVisibility string

const (
	VisibilityPublic    SymbolVisibility = "public"
	VisibilityPrivate   SymbolVisibility = "private"
	VisibilityProtected SymbolVisibility = "protected"
)

// Symbol represents a named code entity extracted from a source file.
// Many symbols may reference the same chunk.
type Symbol struct {
	// Identification
	Name          string
	QualifiedName string
	Kind          SymbolKind

	// Location
	FilePath  string
	StartLine int
	EndLine   int

	// Content
	Signature  string
	DocComment string

	// Attributes
	Visibility SymbolVisibility
	IsExported bool
	IsAsync    bool
	IsStatic   bool

	// Nesting and chunk association (both optional)
	ParentName string
	ChunkID    string
}

// ValidateKind checks if the symbol kind is valid
func (s *Symbol) ValidateKind() error {
	switch s.Kind {
	case KindFunction, KindMethod, KindClass, KindInterface, KindType, KindConst, KindVar, KindModule:
		return nil
	default:
		return errors.New("invalid symbol kind")
	}
}

// Validate performs comprehensive validation of the symbol
func (s *Symbol) Validate() error {
	if s.Name == "" {
		return errors.New("symbol name is required")
	}

	if err := s.ValidateKind(); err != nil {
		return err
	}

	if s.FilePath == "" {
		return errors.New("symbol file path is required")
	}

	if s.StartLine <= 0 || s.EndLine <= 0 {
		return errors.New("line numbers must be positive")
	}

	if s.StartLine > s.EndLine {
		return errors.New("start line must be before or equal to end line")
	}

	return nil
}
