package repository

import (
	"context"
	"fmt"

	"minoj/internal/common/db"
	"minoj/internal/model"
)

// Store is the write-through MySQL mirror of the in-memory registries.
// It is a collaborator, never the source of truth: every method is
// best-effort and an unreachable database only costs the caller a
// warning on the response.
type Store struct {
	db *db.MySQL
}

// NewStore wraps an established connection. A nil connection yields a
// permanently degraded store.
func NewStore(conn *db.MySQL) *Store {
	return &Store{db: conn}
}

// Available reports whether the mirror is reachable
func (s *Store) Available() bool {
	return s != nil && s.db != nil
}

// Close releases the underlying connection
func (s *Store) Close() {
	if s.Available() {
		_ = s.db.Close()
	}
}

// Bootstrap creates the mirror tables when missing
func (s *Store) Bootstrap(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("bootstrap schema: %w", err)
		}
	}
	return nil
}

// Flush truncates every mirror table
func (s *Store) Flush(ctx context.Context) error {
	for _, table := range tables {
		if _, err := s.db.Exec(ctx, "TRUNCATE TABLE "+table); err != nil {
			return fmt.Errorf("truncate %s: %w", table, err)
		}
	}
	return nil
}

// Seed inserts the rows the registries are born with, skipping any
// that already exist: the root user, contest 0, user 0's membership in
// contest 0 and contest 0's problem set.
func (s *Store) Seed(ctx context.Context, problemIDs []uint64) error {
	if _, err := s.db.Exec(ctx,
		`INSERT INTO userlist (id, name)
		 SELECT ?, ? FROM DUAL
		 WHERE NOT EXISTS (SELECT * FROM userlist WHERE id = ?)`,
		0, "root", 0); err != nil {
		return err
	}
	for _, pid := range problemIDs {
		if _, err := s.db.Exec(ctx,
			`INSERT INTO contest_problems (id, pid)
			 SELECT ?, ? FROM DUAL
			 WHERE NOT EXISTS (SELECT * FROM contest_problems WHERE id = ? AND pid = ?)`,
			0, pid, 0, pid); err != nil {
			return err
		}
	}
	if _, err := s.db.Exec(ctx,
		`INSERT INTO contest_users (id, uid)
		 SELECT ?, ? FROM DUAL
		 WHERE NOT EXISTS (SELECT * FROM contest_users WHERE id = ? AND uid = ?)`,
		0, 0, 0, 0); err != nil {
		return err
	}
	if _, err := s.db.Exec(ctx,
		`INSERT INTO contest_list (id, name, fromtime, totime, submission_limit)
		 SELECT ?, ?, ?, ?, ? FROM DUAL
		 WHERE NOT EXISTS (SELECT * FROM contest_list WHERE id = ?)`,
		0, "", "0001-01-01T02:00:00.001Z", model.SentinelTime, 9999, 0); err != nil {
		return err
	}
	return nil
}

// LoadUsers reads every persisted user
func (s *Store) LoadUsers(ctx context.Context) ([]model.User, error) {
	rows, err := s.db.Query(ctx, "SELECT id, name FROM userlist")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var id uint64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		uid := id
		users = append(users, model.User{ID: &uid, Name: name})
	}
	return users, rows.Err()
}

// LoadJobs reads every persisted job, joining the three job tables
func (s *Store) LoadJobs(ctx context.Context) ([]model.Job, error) {
	jobs := make(map[uint64]*model.Job)
	var order []uint64

	rows, err := s.db.Query(ctx,
		"SELECT id, create_time, update_time, state, result, score FROM joblist")
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var (
			id                    uint64
			created, updated      string
			stateRaw, resultRaw   string
			score                 float64
		)
		if err := rows.Scan(&id, &created, &updated, &stateRaw, &resultRaw, &score); err != nil {
			rows.Close()
			return nil, err
		}
		createdTime, err := model.ParseTimestamp(created)
		if err != nil {
			rows.Close()
			return nil, err
		}
		updatedTime, err := model.ParseTimestamp(updated)
		if err != nil {
			rows.Close()
			return nil, err
		}
		state, err := model.ParseState(stateRaw)
		if err != nil {
			rows.Close()
			return nil, err
		}
		result, err := model.ParseResult(resultRaw)
		if err != nil {
			rows.Close()
			return nil, err
		}
		jobs[id] = &model.Job{
			ID:          id,
			CreatedTime: createdTime,
			UpdatedTime: updatedTime,
			State:       state,
			Result:      result,
			Score:       score,
		}
		order = append(order, id)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	rows, err = s.db.Query(ctx,
		"SELECT id, source_code, language, user_id, contest_id, problem_id FROM job_submit")
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var id uint64
		var sub model.JobRequest
		if err := rows.Scan(&id, &sub.SourceCode, &sub.Language, &sub.UserID, &sub.ContestID, &sub.ProblemID); err != nil {
			rows.Close()
			return nil, err
		}
		if j, ok := jobs[id]; ok {
			j.Submission = sub
		}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	rows, err = s.db.Query(ctx,
		"SELECT jobid, caseid, result, time, memory, info FROM job_cases ORDER BY jobid, caseid")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var jobID uint64
		var cs model.Case
		var resultRaw string
		if err := rows.Scan(&jobID, &cs.ID, &resultRaw, &cs.Time, &cs.Memory, &cs.Info); err != nil {
			return nil, err
		}
		result, err := model.ParseResult(resultRaw)
		if err != nil {
			return nil, err
		}
		cs.Result = result
		if j, ok := jobs[jobID]; ok {
			j.Cases = append(j.Cases, cs)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]model.Job, 0, len(order))
	for _, id := range order {
		out = append(out, *jobs[id])
	}
	return out, nil
}

// LoadContests reads every persisted contest, joining the three
// contest tables
func (s *Store) LoadContests(ctx context.Context) ([]model.Contest, error) {
	rows, err := s.db.Query(ctx,
		"SELECT id, name, fromtime, totime, submission_limit FROM contest_list")
	if err != nil {
		return nil, err
	}
	contests := make(map[uint64]*model.Contest)
	var order []uint64
	for rows.Next() {
		var (
			id       uint64
			name     string
			from, to string
			limit    uint64
		)
		if err := rows.Scan(&id, &name, &from, &to, &limit); err != nil {
			rows.Close()
			return nil, err
		}
		fromTime, err := model.ParseTimestamp(from)
		if err != nil {
			rows.Close()
			return nil, err
		}
		toTime, err := model.ParseTimestamp(to)
		if err != nil {
			rows.Close()
			return nil, err
		}
		cid := id
		contests[id] = &model.Contest{
			ID:              &cid,
			Name:            name,
			From:            fromTime,
			To:              toTime,
			SubmissionLimit: limit,
		}
		order = append(order, id)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	rows, err = s.db.Query(ctx, "SELECT id, pid FROM contest_problems ORDER BY id, pid")
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var id, pid uint64
		if err := rows.Scan(&id, &pid); err != nil {
			rows.Close()
			return nil, err
		}
		if ct, ok := contests[id]; ok {
			ct.ProblemIDs = append(ct.ProblemIDs, pid)
		}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	rows, err = s.db.Query(ctx, "SELECT id, uid FROM contest_users ORDER BY id, uid")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var id, uid uint64
		if err := rows.Scan(&id, &uid); err != nil {
			return nil, err
		}
		if ct, ok := contests[id]; ok {
			ct.UserIDs = append(ct.UserIDs, uid)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]model.Contest, 0, len(order))
	for _, id := range order {
		out = append(out, *contests[id])
	}
	return out, nil
}

// SaveJob mirrors a freshly judged job
func (s *Store) SaveJob(ctx context.Context, job *model.Job) error {
	if _, err := s.db.Exec(ctx,
		`INSERT INTO job_submit (id, source_code, language, user_id, contest_id, problem_id)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		job.ID, job.Submission.SourceCode, job.Submission.Language,
		job.Submission.UserID, job.Submission.ContestID, job.Submission.ProblemID); err != nil {
		return err
	}
	if err := s.insertCases(ctx, job); err != nil {
		return err
	}
	return s.insertJobRow(ctx, job)
}

// ReplaceJob mirrors a re-judged job, keeping the job_submit row
func (s *Store) ReplaceJob(ctx context.Context, job *model.Job) error {
	if _, err := s.db.Exec(ctx, "DELETE FROM job_cases WHERE jobid = ?", job.ID); err != nil {
		return err
	}
	if err := s.insertCases(ctx, job); err != nil {
		return err
	}
	if _, err := s.db.Exec(ctx, "DELETE FROM joblist WHERE id = ?", job.ID); err != nil {
		return err
	}
	return s.insertJobRow(ctx, job)
}

// DeleteJob removes a job from all three job tables
func (s *Store) DeleteJob(ctx context.Context, id uint64) error {
	if _, err := s.db.Exec(ctx, "DELETE FROM joblist WHERE id = ?", id); err != nil {
		return err
	}
	if _, err := s.db.Exec(ctx, "DELETE FROM job_submit WHERE id = ?", id); err != nil {
		return err
	}
	_, err := s.db.Exec(ctx, "DELETE FROM job_cases WHERE jobid = ?", id)
	return err
}

func (s *Store) insertCases(ctx context.Context, job *model.Job) error {
	for i := range job.Cases {
		cs := &job.Cases[i]
		if _, err := s.db.Exec(ctx,
			`INSERT INTO job_cases (jobid, caseid, result, time, memory, info)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			job.ID, cs.ID, string(cs.Result), cs.Time, cs.Memory, cs.Info); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) insertJobRow(ctx context.Context, job *model.Job) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO joblist (id, create_time, update_time, state, result, score)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		job.ID, job.CreatedTime.String(), job.UpdatedTime.String(),
		string(job.State), string(job.Result), job.Score)
	return err
}

// CreateUser mirrors a new user and their contest-0 membership
func (s *Store) CreateUser(ctx context.Context, user *model.User) error {
	if _, err := s.db.Exec(ctx,
		"INSERT INTO userlist (id, name) VALUES (?, ?)", *user.ID, user.Name); err != nil {
		return err
	}
	_, err := s.db.Exec(ctx,
		"INSERT INTO contest_users (id, uid) VALUES (?, ?)", 0, *user.ID)
	return err
}

// UpdateUser mirrors a rename
func (s *Store) UpdateUser(ctx context.Context, user *model.User) error {
	_, err := s.db.Exec(ctx,
		"UPDATE userlist SET name = ? WHERE id = ?", user.Name, *user.ID)
	return err
}

// CreateContest mirrors a new contest with its problem and member rows
func (s *Store) CreateContest(ctx context.Context, ct *model.Contest) error {
	if _, err := s.db.Exec(ctx,
		`INSERT INTO contest_list (id, name, fromtime, totime, submission_limit)
		 VALUES (?, ?, ?, ?, ?)`,
		*ct.ID, ct.Name, ct.From.String(), ct.To.String(), ct.SubmissionLimit); err != nil {
		return err
	}
	return s.insertContestMembers(ctx, ct)
}

// UpdateContest mirrors a contest update, replacing its problem and
// member rows
func (s *Store) UpdateContest(ctx context.Context, ct *model.Contest) error {
	if _, err := s.db.Exec(ctx,
		`UPDATE contest_list SET name = ?, fromtime = ?, totime = ?, submission_limit = ?
		 WHERE id = ?`,
		ct.Name, ct.From.String(), ct.To.String(), ct.SubmissionLimit, *ct.ID); err != nil {
		return err
	}
	if _, err := s.db.Exec(ctx, "DELETE FROM contest_problems WHERE id = ?", *ct.ID); err != nil {
		return err
	}
	if _, err := s.db.Exec(ctx, "DELETE FROM contest_users WHERE id = ?", *ct.ID); err != nil {
		return err
	}
	return s.insertContestMembers(ctx, ct)
}

func (s *Store) insertContestMembers(ctx context.Context, ct *model.Contest) error {
	for _, pid := range ct.ProblemIDs {
		if _, err := s.db.Exec(ctx,
			"INSERT INTO contest_problems (id, pid) VALUES (?, ?)", *ct.ID, pid); err != nil {
			return err
		}
	}
	for _, uid := range ct.UserIDs {
		if _, err := s.db.Exec(ctx,
			"INSERT INTO contest_users (id, uid) VALUES (?, ?)", *ct.ID, uid); err != nil {
			return err
		}
	}
	return nil
}
