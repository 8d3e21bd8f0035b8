package codegen

// scannerRuntime emits the fixed part of the scanner: yylex() and its
// supporting Match/compare_matches machinery. Unlike the transition and
// action tables, none of this depends on the specific DFA, so it is a
// constant template rather than something generated case by case -
// the Go rewrite of code.rs's generate_token_logic, split out from the
// DFA-shaped tables above because nothing here varies per grammar.
func (w *writer) scannerRuntime() {
	w.printf("%s", scannerRuntimeTemplate)
}

const scannerRuntimeTemplate = `
#define MAX_MATCHES 128

typedef struct {
    StateID state;
    int priority;
    int length;
} Match;

static Match yy_matches[MAX_MATCHES];
static int yy_match_count = 0;
static int yy_match_index = 0;

static void add_match(StateID state, char *token_start, char *pos) {
    if (yy_match_count >= MAX_MATCHES) {
        fprintf(stderr, "Too many matches for token, increase MAX_MATCHES\n");
        return;
    }
    yy_matches[yy_match_count].state = state;
    yy_matches[yy_match_count].priority = get_rule_priority(state);
    yy_matches[yy_match_count].length = (int)(pos - token_start);
    yy_match_count++;
}

/* Longest match first; among equal-length matches, lowest priority
   value wins (first-declared rule). */
static int compare_matches(const void *a, const void *b) {
    const Match *m1 = (const Match *)a;
    const Match *m2 = (const Match *)b;
    if (m1->length != m2->length) {
        return m2->length - m1->length;
    }
    return m1->priority - m2->priority;
}

int yylex(void) {
    static char *current_pos = NULL;
    static char *buffer_end = NULL;
    static char buffer[YY_BUFFER_SIZE];
    static char *yytext_buffer = NULL;
    static int yytext_buffer_size = 0;

    if (current_pos == NULL || current_pos >= buffer_end) {
        current_pos = buffer_end = buffer;
        int n = (int)fread(buffer, 1, YY_BUFFER_SIZE, yyin);
        buffer_end = buffer + n;
        if (n == 0) {
            goto eof;
        }
    }

scan_token:
    yy_match_count = 0;
    yy_match_index = 0;

    {
        char *token_start = current_pos;
        char *scan_pos = current_pos;
        StateID state = 0;

        while (scan_pos < buffer_end) {
            unsigned char c = (unsigned char)*scan_pos;
            StateID next = transition(state, c);
            if (next == -1) {
                break;
            }
            state = next;
            scan_pos++;
            if (c == '\n') {
                yylineno++;
                yycolumn = 0;
            } else {
                yycolumn++;
            }
            if (is_accepting(state)) {
                add_match(state, token_start, scan_pos);
            }
        }

        if (yy_match_count > 0) {
            qsort(yy_matches, yy_match_count, sizeof(Match), compare_matches);

        process_match:
            if (yy_match_index >= yy_match_count) {
                if (current_pos < buffer_end) {
                    fprintf(stderr, "All matches REJECTed, skipping character '%c'\n", *current_pos);
                    current_pos++;
                    goto scan_token;
                }
                goto eof;
            }

            {
                Match *match = &yy_matches[yy_match_index];
                int total_len = yy_more_len + match->length;

                if (yytext_buffer == NULL || total_len + 1 > yytext_buffer_size) {
                    int new_size = total_len + 1;
                    yytext_buffer = yytext_buffer
                        ? (char *)realloc(yytext_buffer, new_size)
                        : (char *)malloc(new_size);
                    yytext_buffer_size = new_size;
                }
                if (!yytext_buffer) {
                    fprintf(stderr, "Out of memory allocating yytext\n");
                    exit(1);
                }

                memcpy(yytext_buffer + yy_more_len, current_pos, match->length);
                yytext_buffer[total_len] = '\0';
                yytext = yytext_buffer;
                yyleng = total_len;

                yy_rejected = 0;
                yy_more_called = 0;
                execute_action(match->state);

                if (yy_rejected) {
                    yy_match_index++;
                    goto process_match;
                }

                current_pos += match->length;
                if (!yy_more_called) {
                    yy_more_len = 0;
                }

                goto scan_token;
            }
        }
    }

    if (current_pos < buffer_end) {
        unsigned char bad = (unsigned char)*current_pos;
        fprintf(stderr, "Lexer error: Unexpected character '%c' (0x%02X) at line %d, column %d\n",
                (bad >= 32 && bad <= 126) ? bad : '?', bad, yylineno, yycolumn);

        if (bad == '\n') {
            yylineno++;
            yycolumn = 0;
        } else {
            yycolumn++;
        }

        current_pos++;
        goto scan_token;
    }

eof:
    if (yytext_buffer) {
        free(yytext_buffer);
        yytext_buffer = NULL;
        yytext = NULL;
    }
    return 0;
}
`
