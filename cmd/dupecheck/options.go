package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// OptionType defines the type of value an option expects
type OptionType int

const (
	OptionTypeBool OptionType = iota
	OptionTypeString
	OptionTypeInt
	OptionTypeStringList // Repeatable string option, accumulates values
)

// OptionDef defines a command-line option
type OptionDef struct {
	Long        string     // Long option name (without --)
	Short       string     // Short option name (without -)
	Type        OptionType // Type of value expected
	Description string     // Help description
	Default     string     // Default value
}

// ParsedOptions holds the parsed command-line options
type ParsedOptions struct {
	values        map[string]string
	listValues    map[string][]string
	args          []string
	defs          map[string]*OptionDef
	defOrder      []string          // Definition order for usage output
	shortMap      map[string]string // Maps short options to long options
	explicitlySet map[string]bool   // Tracks which options were explicitly set
}

// NewParsedOptions creates a new options parser
func NewParsedOptions() *ParsedOptions {
	return &ParsedOptions{
		values:        make(map[string]string),
		listValues:    make(map[string][]string),
		args:          []string{},
		defs:          make(map[string]*OptionDef),
		shortMap:      make(map[string]string),
		explicitlySet: make(map[string]bool),
	}
}

// DefineOption defines a command-line option
func (p *ParsedOptions) DefineOption(long, short string, optType OptionType, defaultValue, description string) {
	def := &OptionDef{
		Long:        long,
		Short:       short,
		Type:        optType,
		Description: description,
		Default:     defaultValue,
	}
	p.defs[long] = def
	p.defOrder = append(p.defOrder, long)
	if short != "" {
		p.shortMap[short] = long
	}

	// Set default value
	if defaultValue != "" {
		p.values[long] = defaultValue
	}
}

// Parse parses command-line arguments
func (p *ParsedOptions) Parse(args []string) error {
	consumed := make([]bool, len(args)) // Track which arguments are consumed

	// First pass: identify options and mark consumed arguments
	for i := 0; i < len(args); i++ {
		if consumed[i] {
			continue
		}

		arg := args[i]

		if strings.HasPrefix(arg, "--") {
			// Long option
			consumed[i] = true
			if err := p.parseLongOption(arg, args, &i, consumed); err != nil {
				return err
			}
		} else if strings.HasPrefix(arg, "-") && len(arg) > 1 {
			// Short option(s)
			consumed[i] = true
			if err := p.parseShortOptions(arg, args, &i, consumed); err != nil {
				return err
			}
		}
	}

	// Second pass: collect non-consumed arguments
	for i := 0; i < len(args); i++ {
		if !consumed[i] {
			p.args = append(p.args, args[i])
		}
	}

	return nil
}

// parseLongOption parses a long option (--option or --option=value)
func (p *ParsedOptions) parseLongOption(arg string, args []string, i *int, consumed []bool) error {
	optName := strings.TrimPrefix(arg, "--")
	var optValue string
	var hasValue bool

	// Check for --option=value format
	if equalPos := strings.Index(optName, "="); equalPos != -1 {
		optValue = optName[equalPos+1:]
		optName = optName[:equalPos]
		hasValue = true
	}

	def, exists := p.defs[optName]
	if !exists {
		return fmt.Errorf("unknown option: --%s", optName)
	}

	switch def.Type {
	case OptionTypeBool:
		if hasValue {
			// --option=value format with boolean
			if optValue == "true" || optValue == "1" {
				p.values[optName] = "true"
				p.explicitlySet[optName] = true
			} else if optValue == "false" || optValue == "0" {
				p.values[optName] = "false"
				p.explicitlySet[optName] = true
			} else {
				return fmt.Errorf("invalid boolean value for --%s: %s", optName, optValue)
			}
		} else {
			// --option format (sets to true)
			p.values[optName] = "true"
			p.explicitlySet[optName] = true
		}
	case OptionTypeString, OptionTypeInt:
		if !hasValue {
			// --option without value, consume the next available argument
			if nextArg := p.findNextAvailableArg(args, *i, consumed); nextArg != "" {
				optValue = nextArg
			} else {
				return fmt.Errorf("option --%s requires a value", optName)
			}
		}
		p.values[optName] = optValue
		p.explicitlySet[optName] = true

		// Validate integer type
		if def.Type == OptionTypeInt {
			if _, err := strconv.Atoi(optValue); err != nil {
				return fmt.Errorf("invalid integer value for --%s: %s", optName, optValue)
			}
		}
	case OptionTypeStringList:
		if !hasValue {
			if nextArg := p.findNextAvailableArg(args, *i, consumed); nextArg != "" {
				optValue = nextArg
			} else {
				return fmt.Errorf("option --%s requires a value", optName)
			}
		}
		p.listValues[optName] = append(p.listValues[optName], optValue)
		p.explicitlySet[optName] = true
	}

	return nil
}

// parseShortOptions parses short option(s) (-o or -abc)
func (p *ParsedOptions) parseShortOptions(arg string, args []string, i *int, consumed []bool) error {
	shortOpts := strings.TrimPrefix(arg, "-")

	// First, count occurrences of each option for repetition handling
	optCounts := make(map[string]int)
	for _, r := range shortOpts {
		short := string(r)
		if _, exists := p.shortMap[short]; !exists {
			return fmt.Errorf("unknown option: -%s", short)
		}
		optCounts[short]++
	}

	// Process each unique option
	for short, count := range optCounts {
		longOpt := p.shortMap[short]
		def := p.defs[longOpt]

		switch def.Type {
		case OptionTypeBool:
			// For boolean options, just set to true
			p.values[longOpt] = "true"
			p.explicitlySet[longOpt] = true

		case OptionTypeInt:
			// For integer options, the repetition count is the value
			// (e.g., -vvv = verbose level 3)
			p.values[longOpt] = strconv.Itoa(count)
			p.explicitlySet[longOpt] = true

		case OptionTypeString:
			// String options must consume next available argument
			if nextArg := p.findNextAvailableArg(args, *i, consumed); nextArg != "" {
				p.values[longOpt] = nextArg
				p.explicitlySet[longOpt] = true
			} else {
				return fmt.Errorf("option -%s requires a value", short)
			}

		case OptionTypeStringList:
			if nextArg := p.findNextAvailableArg(args, *i, consumed); nextArg != "" {
				p.listValues[longOpt] = append(p.listValues[longOpt], nextArg)
				p.explicitlySet[longOpt] = true
			} else {
				return fmt.Errorf("option -%s requires a value", short)
			}
		}
	}

	return nil
}

// findNextAvailableArg finds the next available argument and marks it consumed
func (p *ParsedOptions) findNextAvailableArg(args []string, startIdx int, consumed []bool) string {
	for i := startIdx + 1; i < len(args); i++ {
		if !consumed[i] && !strings.HasPrefix(args[i], "-") {
			consumed[i] = true
			return args[i]
		}
	}
	return ""
}

// GetString returns a string option value
func (p *ParsedOptions) GetString(option string) string {
	return p.values[option]
}

// GetStrings returns all values of a repeatable option, in the order given
func (p *ParsedOptions) GetStrings(option string) []string {
	return p.listValues[option]
}

// GetInt returns an integer option value
func (p *ParsedOptions) GetInt(option string) int {
	if val, exists := p.values[option]; exists {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return 0
}

// GetBool returns a boolean option value
func (p *ParsedOptions) GetBool(option string) bool {
	if val, exists := p.values[option]; exists {
		return val == "true"
	}
	return false
}

// IsSet returns true if an option was explicitly set
func (p *ParsedOptions) IsSet(option string) bool {
	return p.explicitlySet[option]
}

// GetArgs returns non-option arguments
func (p *ParsedOptions) GetArgs() []string {
	return p.args
}

// ShowUsage displays usage information
func (p *ParsedOptions) ShowUsage(programName string) {
	fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS] [PATH...]\n\n", programName)
	fmt.Fprintf(os.Stderr, "Scan directory trees for byte-identical duplicate files.\n\n")
	fmt.Fprintf(os.Stderr, "Options:\n")

	for _, long := range p.defOrder {
		def := p.defs[long]

		var shortOpt string
		if def.Short != "" {
			shortOpt = fmt.Sprintf("-%s, ", def.Short)
		}

		var valueDesc string
		switch def.Type {
		case OptionTypeString, OptionTypeStringList:
			valueDesc = "=VALUE"
		case OptionTypeInt:
			valueDesc = "=N"
		case OptionTypeBool:
			valueDesc = ""
		}

		fmt.Fprintf(os.Stderr, "  %s--%s%s\n", shortOpt, def.Long, valueDesc)
		fmt.Fprintf(os.Stderr, "        %s\n", def.Description)
	}
}
