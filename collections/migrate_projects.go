package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// DefaultProjectName names the project created to adopt orphan records when
// no project exists yet.
const DefaultProjectName = "Main Site"

// projectScoped lists the collections that carry an optional project relation
// and are attached to a project by MigrateOrphansToProject.
var projectScoped = []string{"workers", "expenses", "estimates", "client_ledger", "payments"}

// MigrateOrphansToProject attaches records created before any project existed
// to the oldest project, creating DefaultProjectName if there is none.
// Attendance rows follow their worker's project. Safe to call on every
// startup -- returns early if nothing to migrate.
func MigrateOrphansToProject(app *pocketbase.PocketBase) error {
	orphans := make(map[string][]*core.Record)
	total := 0
	for _, name := range projectScoped {
		records, err := app.FindRecordsByFilter(name, "project = ''", "", 0, 0)
		if err != nil {
			return fmt.Errorf("migrate: could not query orphan %s: %w", name, err)
		}
		orphans[name] = records
		total += len(records)
	}

	if total == 0 {
		return nil
	}

	log.Printf("migrate: found %d record(s) without a project -- attaching...\n", total)

	project, err := defaultProject(app)
	if err != nil {
		return err
	}

	for _, name := range projectScoped {
		for _, record := range orphans[name] {
			record.Set("project", project.Id)
			if err := app.Save(record); err != nil {
				log.Printf("migrate: failed to link %s %s to project %s: %v\n", name, record.Id, project.Id, err)
				continue
			}
			if name == "workers" {
				attachWorkerAttendance(app, record)
			}
		}
	}

	log.Printf("migrate: orphan records -> Project %q (%s)\n", project.GetString("name"), project.Id)
	return nil
}

func defaultProject(app *pocketbase.PocketBase) (*core.Record, error) {
	existing, err := app.FindRecordsByFilter("projects", "id != ''", "created", 1, 0)
	if err != nil {
		return nil, fmt.Errorf("migrate: could not query projects: %w", err)
	}
	if len(existing) > 0 {
		return existing[0], nil
	}

	projectsCol, err := app.FindCollectionByNameOrId("projects")
	if err != nil {
		return nil, fmt.Errorf("migrate: could not find projects collection: %w", err)
	}
	project := core.NewRecord(projectsCol)
	project.Set("name", DefaultProjectName)
	project.Set("status", "active")
	if err := app.Save(project); err != nil {
		return nil, fmt.Errorf("migrate: could not create default project: %w", err)
	}
	return project, nil
}

func attachWorkerAttendance(app *pocketbase.PocketBase, worker *core.Record) {
	rows, err := app.FindRecordsByFilter(
		"attendance",
		"worker = {:worker} && project = ''",
		"", 0, 0,
		map[string]any{"worker": worker.Id},
	)
	if err != nil {
		log.Printf("migrate: could not query attendance for worker %s: %v\n", worker.Id, err)
		return
	}
	for _, row := range rows {
		row.Set("project", worker.GetString("project"))
		if err := app.Save(row); err != nil {
			log.Printf("migrate: failed to link attendance %s: %v\n", row.Id, err)
		}
	}
}
