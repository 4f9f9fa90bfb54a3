package repository

// Mirror tables. The layout mirrors the in-memory registries: a job is
// split over joblist/job_submit/job_cases, a contest over
// contest_list/contest_problems/contest_users.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS userlist (
		id BIGINT UNSIGNED NOT NULL PRIMARY KEY,
		name VARCHAR(255) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS joblist (
		id BIGINT UNSIGNED NOT NULL PRIMARY KEY,
		create_time VARCHAR(32) NOT NULL,
		update_time VARCHAR(32) NOT NULL,
		state VARCHAR(16) NOT NULL,
		result VARCHAR(32) NOT NULL,
		score DOUBLE NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS job_submit (
		id BIGINT UNSIGNED NOT NULL PRIMARY KEY,
		source_code MEDIUMTEXT NOT NULL,
		language VARCHAR(64) NOT NULL,
		user_id BIGINT UNSIGNED NOT NULL,
		contest_id BIGINT UNSIGNED NOT NULL,
		problem_id BIGINT UNSIGNED NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS job_cases (
		jobid BIGINT UNSIGNED NOT NULL,
		caseid BIGINT UNSIGNED NOT NULL,
		result VARCHAR(32) NOT NULL,
		time BIGINT UNSIGNED NOT NULL,
		memory BIGINT UNSIGNED NOT NULL,
		info TEXT NOT NULL,
		PRIMARY KEY (jobid, caseid)
	)`,
	`CREATE TABLE IF NOT EXISTS contest_list (
		id BIGINT UNSIGNED NOT NULL PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		fromtime VARCHAR(32) NOT NULL,
		totime VARCHAR(32) NOT NULL,
		submission_limit BIGINT UNSIGNED NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS contest_problems (
		id BIGINT UNSIGNED NOT NULL,
		pid BIGINT UNSIGNED NOT NULL,
		PRIMARY KEY (id, pid)
	)`,
	`CREATE TABLE IF NOT EXISTS contest_users (
		id BIGINT UNSIGNED NOT NULL,
		uid BIGINT UNSIGNED NOT NULL,
		PRIMARY KEY (id, uid)
	)`,
}

// truncation order is unconstrained: the mirror carries no foreign keys
var tables = []string{
	"contest_list",
	"contest_problems",
	"contest_users",
	"job_cases",
	"job_submit",
	"joblist",
	"userlist",
}
