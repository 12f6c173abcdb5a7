package sql

type Token struct {
	Type  TokenType
	Value string
}

type TokenType int

const (
	Identifier TokenType = iota
	DatabaseIdentifier
	DatabasesIdentifier
	TableIdentifier
	TablesIdentifier
	Show
	On
	Wildcard
	String
	Int
	Float
	Comma
	ParenOpen
	ParenClose
	Semicolon
	Equals
	NotEquals
	LessThan
	GreaterThan
	LessThanOrEqual
	GreaterThanOrEqual
	And
	Or
	Select
	From
	Where
	Limit
	Offset
	Order
	By
	Asc
	Desc
	Count
	Sum
	Avg
	Min
	Max
	Create
	Drop
	Alter
	Add
	Insert
	Update
	Delete
	Set
	Into
	Values
	Begin
	Commit
	Transaction
	Join
	Inner
	Left
	Outer
	Describe
	As
	Use
	Exit
	EOF
	Unknown
)

func (token Token) String() string {
	switch token.Type {
	case Identifier:
		return "Identifier(" + token.Value + ")"
	case DatabaseIdentifier:
		return "DatabaseIdentifier"
	case DatabasesIdentifier:
		return "DatabasesIdentifier"
	case TableIdentifier:
		return "TableIdentifier"
	case TablesIdentifier:
		return "TablesIdentifier"
	case Show:
		return "Show"
	case On:
		return "On"
	case Wildcard:
		return "Wildcard"
	case String:
		return "String(" + token.Value + ")"
	case Int:
		return "Int(" + token.Value + ")"
	case Float:
		return "Float(" + token.Value + ")"
	case Comma:
		return "Comma"
	case ParenOpen:
		return "ParenOpen"
	case ParenClose:
		return "ParenClose"
	case Semicolon:
		return "Semicolon"
	case Equals:
		return "Equals"
	case NotEquals:
		return "NotEquals"
	case LessThan:
		return "LessThan"
	case GreaterThan:
		return "GreaterThan"
	case LessThanOrEqual:
		return "LessThanOrEqual"
	case GreaterThanOrEqual:
		return "GreaterThanOrEqual"
	case And:
		return "And"
	case Or:
		return "Or"
	case Select:
		return "Select"
	case From:
		return "From"
	case Where:
		return "Where"
	case Limit:
		return "Limit"
	case Offset:
		return "Offset"
	case Order:
		return "Order"
	case By:
		return "By"
	case Asc:
		return "Asc"
	case Desc:
		return "Desc"
	case Count:
		return "Count"
	case Sum:
		return "Sum"
	case Avg:
		return "Avg"
	case Min:
		return "Min"
	case Max:
		return "Max"
	case Create:
		return "Create"
	case Drop:
		return "Drop"
	case Alter:
		return "Alter"
	case Add:
		return "Add"
	case Insert:
		return "Insert"
	case Update:
		return "Update"
	case Delete:
		return "Delete"
	case Set:
		return "Set"
	case Into:
		return "Into"
	case Values:
		return "Values"
	case Begin:
		return "Begin"
	case Commit:
		return "Commit"
	case Transaction:
		return "Transaction"
	case Join:
		return "Join"
	case Inner:
		return "Inner"
	case Left:
		return "Left"
	case Outer:
		return "Outer"
	case Describe:
		return "Describe"
	case As:
		return "As"
	case Use:
		return "Use"
	case Exit:
		return "Exit"
	case EOF:
		return "EOF"
	default:
		return "Unknown(" + token.Value + ")"
	}
}

type Lexer struct {
	sql          string
	position     int
	readPosition int
	ch           byte
}

func NewLexer(sql string) *Lexer {
	lexer := &Lexer{sql: sql}
	lexer.readChar()
	return lexer
}

func (lexer *Lexer) readChar() {
	if lexer.readPosition >= len(lexer.sql) {
		lexer.ch = 0
	} else {
		lexer.ch = lexer.sql[lexer.readPosition]
	}
	lexer.position = lexer.readPosition
	lexer.readPosition++
}

func (lexer *Lexer) NextToken() Token {
	var token Token

	lexer.skipWhitespace()

	switch lexer.ch {
	case ',':
		token = Token{Type: Comma, Value: string(lexer.ch)}
	case '(':
		token = Token{Type: ParenOpen, Value: string(lexer.ch)}
	case ')':
		token = Token{Type: ParenClose, Value: string(lexer.ch)}
	case ';':
		token = Token{Type: Semicolon, Value: string(lexer.ch)}
	case 0:
		token = Token{Type: EOF, Value: ""}
	case '\'':
		token = Token{Type: String, Value: lexer.readString()}
	case '*':
		token = Token{Type: Wildcard, Value: string(lexer.ch)}
	default:
		if isOperator(lexer.ch) {
			operator := lexer.readOperator()
			switch operator {
			case "=":
				return Token{Type: Equals, Value: operator}
			case "!=", "<>":
				return Token{Type: NotEquals, Value: operator}
			case "<":
				return Token{Type: LessThan, Value: operator}
			case ">":
				return Token{Type: GreaterThan, Value: operator}
			case "<=":
				return Token{Type: LessThanOrEqual, Value: operator}
			case ">=":
				return Token{Type: GreaterThanOrEqual, Value: operator}
			default:
				return Token{Type: Unknown, Value: operator}
			}
		} else if isDigit(lexer.ch) || (lexer.ch == '-' && isDigit(lexer.peekChar())) {
			sign := ""
			if lexer.ch == '-' {
				sign = "-"
				lexer.readChar() // consume '-'
			}
			num := lexer.readNumber()
			// Check if it's a float
			if lexer.ch == '.' {
				lexer.readChar() // consume '.'
				decimal := lexer.readNumber()
				return Token{Type: Float, Value: sign + num + "." + decimal}
			}
			return Token{Type: Int, Value: sign + num}
		} else if isAlphaNumeric(lexer.ch) {
			literal := lexer.readIdentifier()
			tokenType := lookupIdentifier(literal)
			return Token{Type: tokenType, Value: literal}
		} else {
			token = Token{Type: Unknown, Value: string(lexer.ch)}
		}
	}

	lexer.readChar()
	return token
}

func (lexer *Lexer) PeekToken() Token {
	// Save current state
	savedPosition := lexer.position
	savedReadPosition := lexer.readPosition
	savedCh := lexer.ch

	// Get next token
	token := lexer.NextToken()

	// Restore state
	lexer.position = savedPosition
	lexer.readPosition = savedReadPosition
	lexer.ch = savedCh

	return token
}

func (lexer *Lexer) peekChar() byte {
	if lexer.readPosition >= len(lexer.sql) {
		return 0
	}
	return lexer.sql[lexer.readPosition]
}

func (lexer *Lexer) skipWhitespace() {
	for lexer.ch == ' ' || lexer.ch == '\t' || lexer.ch == '\n' || lexer.ch == '\r' {
		lexer.readChar()
	}
}

func (lexer *Lexer) readIdentifier() string {
	position := lexer.position
	for isAlphaNumeric(lexer.ch) {
		lexer.readChar()
	}
	return lexer.sql[position:lexer.position]
}

func (lexer *Lexer) readString() string {
	lexer.readChar() // skip opening quote
	position := lexer.position
	for lexer.ch != '\'' && lexer.ch != 0 {
		lexer.readChar()
	}
	str := lexer.sql[position:lexer.position]
	return str
}

func (lexer *Lexer) readNumber() string {
	position := lexer.position
	for isDigit(lexer.ch) {
		lexer.readChar()
	}
	return lexer.sql[position:lexer.position]
}

func (lexer *Lexer) readOperator() string {
	position := lexer.position
	for isOperator(lexer.ch) {
		lexer.readChar()
	}
	return lexer.sql[position:lexer.position]
}

func isAlphaNumeric(ch byte) bool {
	return ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z') || ch == '_' || ch == '.' || isDigit(ch)
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func isOperator(ch byte) bool {
	return ch == '=' || ch == '!' || ch == '<' || ch == '>'
}

func lookupIdentifier(id string) TokenType {
	// Convert to uppercase for case-insensitive matching
	upperID := toUpper(id)
	switch upperID {
	case "DATABASE":
		return DatabaseIdentifier
	case "DATABASES":
		return DatabasesIdentifier
	case "TABLE":
		return TableIdentifier
	case "TABLES":
		return TablesIdentifier
	case "SHOW":
		return Show
	case "ON":
		return On
	case "AND":
		return And
	case "OR":
		return Or
	case "SELECT":
		return Select
	case "FROM":
		return From
	case "WHERE":
		return Where
	case "LIMIT":
		return Limit
	case "OFFSET":
		return Offset
	case "ORDER":
		return Order
	case "BY":
		return By
	case "ASC":
		return Asc
	case "DESC":
		return Desc
	case "COUNT":
		return Count
	case "SUM":
		return Sum
	case "AVG":
		return Avg
	case "MIN":
		return Min
	case "MAX":
		return Max
	case "CREATE":
		return Create
	case "DROP":
		return Drop
	case "ALTER":
		return Alter
	case "ADD":
		return Add
	case "INSERT":
		return Insert
	case "UPDATE":
		return Update
	case "DELETE":
		return Delete
	case "SET":
		return Set
	case "INTO":
		return Into
	case "VALUES":
		return Values
	case "BEGIN":
		return Begin
	case "COMMIT":
		return Commit
	case "TRANSACTION":
		return Transaction
	case "JOIN":
		return Join
	case "INNER":
		return Inner
	case "LEFT":
		return Left
	case "OUTER":
		return Outer
	case "DESCRIBE":
		return Describe
	case "AS":
		return As
	case "USE":
		return Use
	case "EXIT", "QUIT":
		return Exit
	default:
		return Identifier
	}
}

// toUpper converts a string to uppercase without allocating for ASCII strings
func toUpper(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] >= 'a' && s[i] <= 'z' {
			// Need to convert, allocate a new string
			b := make([]byte, len(s))
			for j := 0; j < len(s); j++ {
				if s[j] >= 'a' && s[j] <= 'z' {
					b[j] = s[j] - 32
				} else {
					b[j] = s[j]
				}
			}
			return string(b)
		}
	}
	return s
}

func tokenize(sql string) []Token {
	lexer := NewLexer(sql)

	var tokens []Token

	for {
		token := lexer.NextToken()
		if token.Type == EOF {
			return append(tokens, token)
		}
		tokens = append(tokens, token)
	}
}
