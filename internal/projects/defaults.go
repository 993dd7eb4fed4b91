package projects

type defaultImage struct {
	URL string
	Alt string
}

var defaultImages = []defaultImage{
	{URL: "/modern-saas-dashboard-ui.jpg", Alt: "Learnsphere course catalogue"},
	{URL: "/minimalist-portfolio-design.jpg", Alt: "Dark themed portfolio landing page"},
}

// defaultProjects are listed in display order. Each ImageURL doubles as the
// key into defaultImages.
var defaultProjects = []Fields{
	{
		Title:       "Learnsphere – e-commerce learning platform",
		Category:    "E-commerce Platform",
		TechStack:   []string{"Next.js", "Firebase", "Tailwind", "Vercel", "Google AI Studio", "Antigravity"},
		Description: "A clean e-commerce interface for browsing and purchasing courses. Built with modern full-stack tools, focusing on user experience and reliable deployments.",
		Link:        "https://learnsphere-v1.vercel.app",
		Featured:    true,
		ImageURL:    "/modern-saas-dashboard-ui.jpg",
	},
	{
		Title:       "Personal Portfolio – Full Stack Developer",
		Category:    "Portfolio",
		TechStack:   []string{"Next.js", "Tailwind", "Vercel", "v0", "React"},
		Description: "A minimal, dark-themed portfolio showcasing my work and skills. Built with Next.js, Tailwind, and deployed on Vercel. Focused on clean typography, spacing, and accessibility.",
		Link:        "https://potfolio-pearl.vercel.app",
		ImageURL:    "/minimalist-portfolio-design.jpg",
	},
}

// DefaultProjects returns a copy of the seed data.
func DefaultProjects() []Fields {
	out := make([]Fields, len(defaultProjects))
	for i, f := range defaultProjects {
		f.TechStack = append([]string(nil), f.TechStack...)
		out[i] = f
	}
	return out
}
