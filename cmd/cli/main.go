package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/snapquery/snapquery"
	"github.com/snapquery/snapquery/config"
	"github.com/snapquery/snapquery/console"
	"github.com/snapquery/snapquery/query"
)

const (
	PromptColor  = "\033[36m" // Cyan
	ErrorColor   = "\033[31m" // Red
	SuccessColor = "\033[32m" // Green
	ResetColor   = "\033[0m"
	BoldColor    = "\033[1m"
)

// Version is set at build time via -ldflags
var Version = "dev"

// CLI holds the CLI state
type CLI struct {
	console     *console.Console
	history     []string
	historyFile string
	jsonMode    bool
}

func main() {
	cfg := config.Load()

	snapshotURL := flag.String("snapshot", "", "Snapshot URL or %s template (overrides the environment)")
	revision := flag.String("revision", "", "Snapshot revision to load")
	sqlFile := flag.String("sqlFile", "", "SQL file to execute (non-interactive)")
	jsonMode := flag.Bool("json", false, "Render results as JSON records")
	flag.Parse()

	if *snapshotURL != "" {
		cfg.SnapshotURL = *snapshotURL
	}
	if *revision != "" {
		cfg.Revision = *revision
	}

	printBanner()

	c, err := snapquery.Open(cfg)
	if err != nil {
		fmt.Printf("%sError: %v%s\n", ErrorColor, err, ResetColor)
		os.Exit(1)
	}
	defer c.Close()

	cli := &CLI{
		console:     c,
		history:     make([]string, 0),
		historyFile: getHistoryPath(),
		jsonMode:    *jsonMode,
	}

	cli.loadHistory()

	if *sqlFile != "" {
		if err := cli.importFile(*sqlFile); err != nil {
			fmt.Printf("%sError importing file: %v%s\n", ErrorColor, err, ResetColor)
			os.Exit(1)
		}
		return
	}

	fmt.Printf("%sSnapshot revision: %s%s\n", SuccessColor, c.Revision(), ResetColor)
	cli.run()
}

func printBanner() {
	fmt.Println()
	bannerWidth := 39 // inner width of the banner box
	versionLine := fmt.Sprintf("snapquery v%s", Version)
	padding := bannerWidth - len(versionLine) - 2 // -2 for "  " margins
	if padding < 0 {
		padding = 0
	}
	leftPad := padding / 2
	rightPad := padding - leftPad

	fmt.Printf("%s%s╔═══════════════════════════════════════╗%s\n", BoldColor, PromptColor, ResetColor)
	fmt.Printf("%s%s║ %*s%s%*s ║%s\n", BoldColor, PromptColor, leftPad, "", versionLine, rightPad, "", ResetColor)
	fmt.Printf("%s%s║   Remote-Snapshot SQL Query Console   ║%s\n", BoldColor, PromptColor, ResetColor)
	fmt.Printf("%s%s╚═══════════════════════════════════════╝%s\n", BoldColor, PromptColor, ResetColor)
	fmt.Println()
	fmt.Println("Type .help for commands, .quit to exit")
	fmt.Println()
}

func (cli *CLI) run() {
	reader := bufio.NewReader(os.Stdin)
	var multiLineBuffer strings.Builder

	for {
		prompt := cli.getPrompt(multiLineBuffer.Len() > 0)
		fmt.Print(prompt)

		input, err := reader.ReadString('\n')
		if err != nil {
			fmt.Printf("\n%sGoodbye!%s\n", SuccessColor, ResetColor)
			cli.saveHistory()
			return
		}

		input = strings.TrimSuffix(input, "\n")
		input = strings.TrimSuffix(input, "\r")

		if strings.TrimSpace(input) == "" {
			continue
		}

		// Special commands only apply outside a multi-line statement
		if multiLineBuffer.Len() == 0 && strings.HasPrefix(input, ".") {
			if cli.handleCommand(input) {
				continue
			}
		}

		// Multi-line support: accumulate until we see a semicolon
		multiLineBuffer.WriteString(input)

		trimmed := strings.TrimSpace(multiLineBuffer.String())
		if !strings.HasSuffix(trimmed, ";") {
			multiLineBuffer.WriteString(" ")
			continue
		}

		sql := strings.TrimSuffix(trimmed, ";")
		multiLineBuffer.Reset()

		if strings.TrimSpace(sql) == "" {
			continue
		}

		cli.addToHistory(sql + ";")
		cli.execute(sql)
	}
}

func (cli *CLI) execute(sql string) {
	cli.console.SetQueryText(sql)
	result := cli.console.Execute(context.Background())
	cli.display(result)
}

// display renders one result, honoring the JSON records mode.
func (cli *CLI) display(result query.Result) {
	switch r := result.(type) {
	case query.Rows:
		if cli.jsonMode {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			encoder.Encode(query.Records(r))
		} else {
			columns, data := query.Table(r)
			renderTable(os.Stdout, columns, data)
		}
		status := cli.console.Status()
		if status.ElapsedSeconds != nil {
			fmt.Printf("%s✓ %d rows (%.3fs)%s\n", SuccessColor, status.RowCount, *status.ElapsedSeconds, ResetColor)
		}
	case query.Ack:
		fmt.Printf("%s✓ %s%s\n", SuccessColor, r.Message, ResetColor)
	case query.Failure:
		fmt.Printf("%s✗ %s: %s%s\n", ErrorColor, r.Kind, r.Message, ResetColor)
	}
}

func (cli *CLI) getPrompt(multiLine bool) string {
	if multiLine {
		return fmt.Sprintf("%s   ...>%s ", PromptColor, ResetColor)
	}

	revPart := ""
	if rev := cli.console.Revision(); rev != "" {
		revPart = fmt.Sprintf(" (%s)", rev)
	}

	return fmt.Sprintf("%ssnapquery%s>%s ", PromptColor, revPart, ResetColor)
}

func (cli *CLI) handleCommand(input string) bool {
	parts := strings.Fields(strings.TrimSpace(input))
	if len(parts) == 0 {
		return true
	}

	switch strings.ToLower(parts[0]) {
	case ".quit", ".exit", ".q":
		fmt.Printf("%sGoodbye!%s\n", SuccessColor, ResetColor)
		cli.saveHistory()
		cli.console.Close()
		os.Exit(0)

	case ".help", ".h", ".?":
		cli.printHelp()

	case ".examples":
		cli.showExamples()

	case ".example":
		if len(parts) > 1 {
			cli.runExample(parts[1])
		} else {
			fmt.Printf("%s✗ Usage: .example <id>%s\n", ErrorColor, ResetColor)
		}

	case ".reload":
		if err := cli.console.Reload(context.Background()); err != nil {
			fmt.Printf("%s✗ Error: %v%s\n", ErrorColor, err, ResetColor)
		} else {
			fmt.Printf("%s✓ Snapshot reloaded%s\n", SuccessColor, ResetColor)
		}

	case ".use":
		if len(parts) > 1 {
			if err := cli.console.Use(context.Background(), parts[1]); err != nil {
				fmt.Printf("%s✗ Error: %v%s\n", ErrorColor, err, ResetColor)
			} else {
				fmt.Printf("%s✓ Using revision: %s%s\n", SuccessColor, parts[1], ResetColor)
			}
		} else {
			fmt.Printf("%s✗ Usage: .use <revision>%s\n", ErrorColor, ResetColor)
		}

	case ".json":
		cli.jsonMode = !cli.jsonMode
		if cli.jsonMode {
			fmt.Printf("%s✓ JSON records mode on%s\n", SuccessColor, ResetColor)
		} else {
			fmt.Printf("%s✓ JSON records mode off%s\n", SuccessColor, ResetColor)
		}

	case ".clear", ".cls":
		fmt.Print("\033[H\033[2J")

	case ".history":
		cli.printHistory()

	case ".version":
		fmt.Printf("snapquery version %s\n", Version)

	default:
		fmt.Printf("%s✗ Unknown command: %s (type .help for commands)%s\n", ErrorColor, parts[0], ResetColor)
	}

	return true
}

func (cli *CLI) printHelp() {
	fmt.Println()
	fmt.Printf("%s%sSpecial Commands:%s\n", BoldColor, PromptColor, ResetColor)
	fmt.Println("  .help, .h        Show this help message")
	fmt.Println("  .quit, .exit     Exit the console")
	fmt.Println("  .examples        List the example queries")
	fmt.Println("  .example <id>    Run an example query")
	fmt.Println("  .reload          Discard the loaded snapshot and fetch it again")
	fmt.Println("  .use <revision>  Switch to another snapshot revision")
	fmt.Println("  .json            Toggle JSON records output")
	fmt.Println("  .history         Show command history")
	fmt.Println("  .clear           Clear the screen")
	fmt.Println("  .version         Show version info")
	fmt.Println()
	fmt.Printf("%s%sSQL:%s any statement supported by the embedded engine,\n", BoldColor, PromptColor, ResetColor)
	fmt.Println("terminated by ';'. Changes apply to the loaded copy only;")
	fmt.Println("the remote snapshot is immutable.")
	fmt.Println()
}

func (cli *CLI) showExamples() {
	table := NewTable(os.Stdout)
	table.Header([]string{"id", "name", "description"})
	for _, example := range cli.console.Examples() {
		table.Row([]string{example.ID, example.Name, example.Description})
	}
	table.Render()
}

func (cli *CLI) runExample(id string) {
	if !cli.console.SelectExample(id) {
		fmt.Printf("%s✗ Unknown example: %s (use .examples to list them)%s\n", ErrorColor, id, ResetColor)
		return
	}
	cli.addToHistory(cli.console.QueryText())
	cli.display(cli.console.Execute(context.Background()))
}

func (cli *CLI) addToHistory(cmd string) {
	// Don't add duplicates of the last command
	if len(cli.history) > 0 && cli.history[len(cli.history)-1] == cmd {
		return
	}
	cli.history = append(cli.history, cmd)

	// Limit history size
	if len(cli.history) > 1000 {
		cli.history = cli.history[len(cli.history)-1000:]
	}
}

func (cli *CLI) printHistory() {
	if len(cli.history) == 0 {
		fmt.Println("No command history")
		return
	}

	start := 0
	if len(cli.history) > 20 {
		start = len(cli.history) - 20
	}

	for i := start; i < len(cli.history); i++ {
		fmt.Printf("  %3d  %s\n", i+1, cli.history[i])
	}
}

func getHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".snapquery_history")
}

func (cli *CLI) loadHistory() {
	if cli.historyFile == "" {
		return
	}

	file, err := os.Open(cli.historyFile)
	if err != nil {
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		cli.history = append(cli.history, scanner.Text())
	}
}

func (cli *CLI) saveHistory() {
	if cli.historyFile == "" {
		return
	}

	file, err := os.Create(cli.historyFile)
	if err != nil {
		return
	}
	defer file.Close()

	// Save last 1000 entries
	start := 0
	if len(cli.history) > 1000 {
		start = len(cli.history) - 1000
	}

	for i := start; i < len(cli.history); i++ {
		_, _ = file.WriteString(cli.history[i] + "\n")
	}
}

// importFile reads and executes SQL statements from a file
func (cli *CLI) importFile(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	statements := splitStatements(string(data))

	successCount := 0
	errorCount := 0

	for i, stmt := range statements {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" || strings.HasPrefix(stmt, "--") {
			continue
		}

		cli.console.SetQueryText(stmt)
		result := cli.console.Execute(context.Background())
		switch r := result.(type) {
		case query.Failure:
			fmt.Printf("%s[%d] ✗ %s%s\n", ErrorColor, i+1, truncate(stmt, 50), ResetColor)
			fmt.Printf("      Error: %s: %s\n", r.Kind, r.Message)
			errorCount++
		case query.Rows:
			fmt.Printf("%s[%d] ✓ %s (%d rows)%s\n", SuccessColor, i+1, truncate(stmt, 50), len(r.Data), ResetColor)
			successCount++
		default:
			fmt.Printf("%s[%d] ✓ %s%s\n", SuccessColor, i+1, truncate(stmt, 50), ResetColor)
			successCount++
		}
	}

	fmt.Printf("\n%s✓ Import complete: %d succeeded, %d failed%s\n",
		SuccessColor, successCount, errorCount, ResetColor)

	return nil
}

// splitStatements splits SQL content into individual statements
func splitStatements(content string) []string {
	var statements []string
	var current strings.Builder
	inString := false
	stringChar := byte(0)

	for i := 0; i < len(content); i++ {
		ch := content[i]

		// Handle string literals
		if (ch == '\'' || ch == '"') && (i == 0 || content[i-1] != '\\') {
			if !inString {
				inString = true
				stringChar = ch
			} else if ch == stringChar {
				inString = false
			}
		}

		// Handle comments
		if !inString && ch == '-' && i+1 < len(content) && content[i+1] == '-' {
			for i < len(content) && content[i] != '\n' {
				i++
			}
			continue
		}

		// Statement separator
		if !inString && ch == ';' {
			stmt := strings.TrimSpace(current.String())
			if stmt != "" {
				statements = append(statements, stmt)
			}
			current.Reset()
			continue
		}

		current.WriteByte(ch)
	}

	stmt := strings.TrimSpace(current.String())
	if stmt != "" {
		statements = append(statements, stmt)
	}

	return statements
}

// truncate shortens a string to max length with ellipsis
func truncate(s string, max int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\t", " ")
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
