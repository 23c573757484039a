package roles

// Catalog is the fixed list of roles a user can target, in display order.
var Catalog = []string{
	"Frontend Engineer",
	"Backend Engineer",
	"Fullstack Developer",
	"Data Scientist",
	"Product Manager",
	"UX/UI Designer",
	"DevOps Engineer",
	"Mobile Developer",
	"Cybersecurity Analyst",
	"Cloud Architect",
}

// requiredSkills maps a role to its declared skill profile. Roles outside the
// map are treated as having no profile.
var requiredSkills = map[string][]string{
	"Frontend Engineer":     {"React", "TypeScript", "Tailwind CSS", "Next.js", "State Management", "Testing (Jest/Cypress)", "Browser APIs", "Performance Optimization"},
	"Backend Engineer":      {"Node.js", "Python", "Go", "PostgreSQL", "Redis", "Microservices", "API Design", "Docker", "Authentication"},
	"Fullstack Developer":   {"React", "Node.js", "PostgreSQL", "TypeScript", "System Design", "Cloud Services", "Deployment", "Version Control"},
	"Data Scientist":        {"Python", "SQL", "Machine Learning", "Statistics", "Data Visualization", "Pandas", "Scikit-Learn", "Big Data", "Spark"},
	"Product Manager":       {"Strategy", "User Research", "Agile", "Roadmapping", "Data Analysis", "Communication", "Stakeholder Management"},
	"UX/UI Designer":        {"Figma", "User Research", "Wireframing", "Prototyping", "Design Systems", "Typography", "Visual Design", "Accessibility"},
	"DevOps Engineer":       {"CI/CD", "Kubernetes", "AWS/Azure/GCP", "Terraform", "Monitoring", "Security", "Linux", "Networking"},
	"Mobile Developer":      {"React Native", "Swift", "Kotlin", "Flutter", "Mobile UI", "Native APIs", "App Store Guidelines"},
	"Cybersecurity Analyst": {"Network Security", "Threat Hunting", "Compliance", "SIEM", "Vulnerability Assessment", "Cloud Security", "Cryptography"},
	"Cloud Architect":       {"AWS/Azure", "Serverless", "Security", "Networking", "Database Design", "Cost Optimization", "Hybrid Cloud"},
}

// RequiredSkills returns the skill profile for a role. An unknown role yields
// an empty list, not an error.
func RequiredSkills(role string) []string {
	skills := requiredSkills[role]
	out := make([]string, len(skills))
	copy(out, skills)
	return out
}

// Known reports whether the role is part of the catalog.
func Known(role string) bool {
	for _, r := range Catalog {
		if r == role {
			return true
		}
	}
	return false
}
