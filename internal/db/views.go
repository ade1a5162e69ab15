package db

import "gorm.io/gorm"

// Ledger history views. Each projection normalizes one transactional
// table to the common shape (user_id, profile_type, date, operation_type,
// income, expense, additional_data, row_id); exactly one of income and
// expense is non-null per row. row_id is the source row's UUID and acts
// as the deterministic tie-break when two rows share a timestamp. The
// role-specific unions are what the history endpoints read.
var historyViews = []string{
	`CREATE OR REPLACE VIEW history_deposits AS
	SELECT p.user_id,
	       concat(p.role, '_', p.type)                             AS profile_type,
	       d.created_at                                            AS date,
	       'deposit'::text                                         AS operation_type,
	       d.amount::text                                          AS income,
	       NULL::text                                              AS expense,
	       json_build_object('accountNumber', w.account_number)    AS additional_data,
	       d.id                                                    AS row_id
	FROM deposits d
	JOIN user_profiles p ON p.wallet_id = d.wallet_id AND p.status = 'accepted'
	JOIN wallets w ON w.id = d.wallet_id`,

	`CREATE OR REPLACE VIEW history_withdrawals AS
	SELECT p.user_id,
	       concat(p.role, '_', p.type)                             AS profile_type,
	       wd.created_at                                           AS date,
	       'withdraw'::text                                        AS operation_type,
	       NULL::text                                              AS income,
	       wd.amount::text                                         AS expense,
	       json_build_object('accountNumber', w.account_number)    AS additional_data,
	       wd.id                                                   AS row_id
	FROM withdrawals wd
	JOIN user_profiles p ON p.wallet_id = wd.wallet_id AND p.status = 'accepted'
	JOIN wallets w ON w.id = wd.wallet_id`,

	`CREATE OR REPLACE VIEW history_investments AS
	SELECT i.user_id,
	       i.profile_type,
	       i.created_at                                            AS date,
	       'investment'::text                                      AS operation_type,
	       NULL::text                                              AS income,
	       i.value::text                                           AS expense,
	       json_build_object('contractNumber', l.contract_number,
	                         'contractDate', l.conclusion_contract_date,
	                         'borrower', l.name,
	                         'tin', ud.tin)                        AS additional_data,
	       i.id                                                    AS row_id
	FROM investments i
	JOIN loans l ON l.id = i.loan_id
	JOIN user_documents ud ON ud.user_id = l.borrower_id`,

	`CREATE OR REPLACE VIEW history_interest_payments_investor AS
	SELECT i.user_id,
	       i.profile_type,
	       pay.updated_at                                          AS date,
	       'interestPayment'::text                                 AS operation_type,
	       pay.percent::text                                       AS income,
	       NULL::text                                              AS expense,
	       json_build_object('contractNumber', l.contract_number,
	                         'contractDate', l.conclusion_contract_date,
	                         'borrower', l.name,
	                         'tin', ud.tin)                        AS additional_data,
	       pay.id                                                  AS row_id
	FROM payments pay
	JOIN investments i ON i.id = pay.investment_id
	JOIN loans l ON l.id = pay.loan_id
	JOIN user_documents ud ON ud.user_id = l.borrower_id
	WHERE pay.status = 'executed'`,

	`CREATE OR REPLACE VIEW history_main_duty_payments_investor AS
	SELECT i.user_id,
	       i.profile_type,
	       pay.updated_at                                          AS date,
	       'mainDutyPayment'::text                                 AS operation_type,
	       pay.duty::text                                          AS income,
	       NULL::text                                              AS expense,
	       json_build_object('contractNumber', l.contract_number,
	                         'contractDate', l.conclusion_contract_date,
	                         'borrower', l.name,
	                         'tin', ud.tin)                        AS additional_data,
	       pay.id                                                  AS row_id
	FROM payments pay
	JOIN investments i ON i.id = pay.investment_id
	JOIN loans l ON l.id = pay.loan_id
	JOIN user_documents ud ON ud.user_id = l.borrower_id
	WHERE pay.status = 'executed'`,

	`CREATE OR REPLACE VIEW history_fees AS
	SELECT user_id,
	       profile_type,
	       created_at                                              AS date,
	       'fee'::text                                             AS operation_type,
	       NULL::text                                              AS income,
	       amount::text                                            AS expense,
	       json_build_object()                                     AS additional_data,
	       id                                                      AS row_id
	FROM fees`,

	`CREATE OR REPLACE VIEW history_loan_issues AS
	SELECT l.borrower_id                                           AS user_id,
	       concat(p.role, '_', p.type)                             AS profile_type,
	       li.updated_at                                           AS date,
	       'loanIssue'::text                                       AS operation_type,
	       inv.total::text                                         AS income,
	       NULL::text                                              AS expense,
	       json_build_object('contractNumber', l.contract_number,
	                         'contractDate', l.conclusion_contract_date,
	                         'borrower', l.name,
	                         'tin', ud.tin)                        AS additional_data,
	       li.id                                                   AS row_id
	FROM loan_issues li
	JOIN loans l ON l.id = li.loan_id
	JOIN user_profiles p ON p.id = l.profile_id
	JOIN (SELECT loan_id, sum(value) AS total FROM investments GROUP BY loan_id) inv
	     ON inv.loan_id = li.loan_id
	JOIN user_documents ud ON ud.user_id = l.borrower_id
	WHERE li.status = 'accepted'`,

	`CREATE OR REPLACE VIEW history_interest_payments_borrower AS
	SELECT l.borrower_id                                           AS user_id,
	       concat(p.role, '_', p.type)                             AS profile_type,
	       grouped.payment_date                                    AS date,
	       'interestPayment'::text                                 AS operation_type,
	       NULL::text                                              AS income,
	       grouped.amount::text                                    AS expense,
	       json_build_object('contractNumber', l.contract_number,
	                         'contractDate', l.conclusion_contract_date,
	                         'borrower', l.name,
	                         'tin', ud.tin)                        AS additional_data,
	       grouped.row_id
	FROM (SELECT sum(percent) AS amount, loan_id, payment_date, min(id::text)::uuid AS row_id
	      FROM payments WHERE status = 'executed'
	      GROUP BY loan_id, payment_date) grouped
	JOIN loans l ON l.id = grouped.loan_id
	JOIN user_profiles p ON p.id = l.profile_id
	JOIN user_documents ud ON ud.user_id = l.borrower_id`,

	`CREATE OR REPLACE VIEW history_main_duty_payments_borrower AS
	SELECT l.borrower_id                                           AS user_id,
	       concat(p.role, '_', p.type)                             AS profile_type,
	       grouped.payment_date                                    AS date,
	       'mainDutyPayment'::text                                 AS operation_type,
	       NULL::text                                              AS income,
	       grouped.amount::text                                    AS expense,
	       json_build_object('contractNumber', l.contract_number,
	                         'contractDate', l.conclusion_contract_date,
	                         'borrower', l.name,
	                         'tin', ud.tin)                        AS additional_data,
	       grouped.row_id
	FROM (SELECT sum(duty) AS amount, loan_id, payment_date, min(id::text)::uuid AS row_id
	      FROM payments WHERE status = 'executed'
	      GROUP BY loan_id, payment_date) grouped
	JOIN loans l ON l.id = grouped.loan_id
	JOIN user_profiles p ON p.id = l.profile_id
	JOIN user_documents ud ON ud.user_id = l.borrower_id`,

	`CREATE OR REPLACE VIEW history_investor AS
	SELECT * FROM history_deposits
	UNION ALL SELECT * FROM history_withdrawals
	UNION ALL SELECT * FROM history_investments
	UNION ALL SELECT * FROM history_interest_payments_investor
	UNION ALL SELECT * FROM history_main_duty_payments_investor
	UNION ALL SELECT * FROM history_fees`,

	`CREATE OR REPLACE VIEW history_borrower AS
	SELECT * FROM history_deposits
	UNION ALL SELECT * FROM history_withdrawals
	UNION ALL SELECT * FROM history_loan_issues
	UNION ALL SELECT * FROM history_interest_payments_borrower
	UNION ALL SELECT * FROM history_main_duty_payments_borrower
	UNION ALL SELECT * FROM history_fees`,
}

// CreateHistoryViews (re)creates every projection and union view in one
// transaction.
func CreateHistoryViews(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		for _, stmt := range historyViews {
			if err := tx.Exec(stmt).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
