// Package prompts assembles the prompts sent to the completion endpoint.
package prompts

import (
	"fmt"
	"strings"
)

// SQLGenerationSystemPrompt is the fixed system instruction for SQL
// generation.
const SQLGenerationSystemPrompt = "You are a helpful assistant that writes PostgreSQL queries. " +
	"Return only the SQL code without any explanation or extra text."

// dialectRules are hard syntax constraints for the PostgreSQL dialect.
// They target the failure modes we see most from completion models.
var dialectRules = []string{
	"Window functions (LAG, LEAD, ROW_NUMBER, ...) must never appear in WHERE or HAVING clauses; compute them in a CTE and filter the CTE instead.",
	"Column aliases defined in SELECT must not be referenced in WHERE; repeat the expression or use a CTE.",
	"Use PostgreSQL interval syntax for date arithmetic, e.g. NOW() - INTERVAL '30 days'.",
	"Return exactly one statement, terminated with a semicolon.",
}

// fewShotExample demonstrates the window-function-in-HAVING anti-pattern and
// its corrected CTE form.
const fewShotExample = `Example:
Question: Find products where the monthly average rating is increasing.

Incorrect SQL (window function in HAVING is rejected by PostgreSQL):
SELECT
    products.product_id,
    AVG(reviews.rating) AS average_rating,
    DATE_TRUNC('month', reviews.created_at) AS month
FROM products
JOIN reviews ON products.product_id = reviews.product_id
GROUP BY products.product_id, DATE_TRUNC('month', reviews.created_at)
HAVING AVG(reviews.rating) > LAG(AVG(reviews.rating)) OVER (PARTITION BY products.product_id ORDER BY DATE_TRUNC('month', reviews.created_at));

Correct SQL:
WITH monthly_aggregates AS (
    SELECT product_id, DATE_TRUNC('month', created_at) AS month, AVG(rating) AS avg_rating
    FROM reviews
    GROUP BY product_id, month
),
with_lag AS (
    SELECT *,
           LAG(avg_rating) OVER (PARTITION BY product_id ORDER BY month) AS prev_avg_rating
    FROM monthly_aggregates
)
SELECT *
FROM with_lag
WHERE avg_rating > prev_avg_rating;`

// BuildSQLGenerationPrompt composes the full user prompt: dialect rules, the
// worked example, the schema description, and the question.
func BuildSQLGenerationPrompt(schema, questionText string) string {
	var prompt strings.Builder

	prompt.WriteString("Given the following database schema:\n\n")
	prompt.WriteString(schema)
	prompt.WriteString("\n\nSyntax rules that must be followed:\n")
	for _, rule := range dialectRules {
		prompt.WriteString("- ")
		prompt.WriteString(rule)
		prompt.WriteString("\n")
	}
	prompt.WriteString("\n")
	prompt.WriteString(fewShotExample)
	prompt.WriteString("\n\n")
	prompt.WriteString(fmt.Sprintf("Write a SQL query to answer the following question: %q.\n", questionText))
	prompt.WriteString("Return only the SQL code without any explanation or extra text.\n")

	return prompt.String()
}
