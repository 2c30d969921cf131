package autocommit

// ValidatePlan keeps only known paths, removing duplicates within and
// across groups (the first group to claim a path keeps it), and drops
// groups left empty. It also returns the known paths that no surviving
// group references, in their original order.
func ValidatePlan(groups []CommitGroup, known []string) (CommitPlan, []string) {
	allowed := make(map[string]bool, len(known))
	for _, p := range known {
		allowed[p] = true
	}

	claimed := make(map[string]bool, len(known))
	plan := make(CommitPlan, 0, len(groups))
	for _, g := range groups {
		files := make([]string, 0, len(g.Files))
		for _, p := range g.Files {
			if !allowed[p] || claimed[p] {
				continue
			}
			claimed[p] = true
			files = append(files, p)
		}
		if len(files) == 0 {
			continue
		}
		plan = append(plan, CommitGroup{Files: files, Message: g.Message})
	}

	var dropped []string
	for _, p := range known {
		if !claimed[p] {
			dropped = append(dropped, p)
		}
	}
	return plan, dropped
}
